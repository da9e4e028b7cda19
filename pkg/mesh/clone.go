package mesh

import (
	"fmt"

	"github.com/jinzhu/copier"
)

// Clone returns a deep copy of m that shares no slices with it.
func (m *Mesh) Clone() (*Mesh, error) {
	c := &Mesh{}
	if err := copier.CopyWithOption(c, m, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("clone mesh: %w", err)
	}
	c.stats = m.stats
	return c, nil
}
