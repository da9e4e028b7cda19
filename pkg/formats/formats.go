// Package formats provides parsers and writers for mesh interchange formats.
// The OBJ indexed-face text format is read by ParseOBJ and written by
// WriteOBJ.
package formats
