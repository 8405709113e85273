package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tableflip.dev/tabtree/pkg/tabs"
)

// ErrGroupNotFound is returned when a group reference resolves to nothing.
var ErrGroupNotFound = errors.New("app: group not found")

// ResolveGroup accepts a group index, an id or a case-insensitive name.
func ResolveGroup(c *tabs.Collection, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, fmt.Errorf("%w: empty reference", ErrGroupNotFound)
	}
	if i, err := strconv.Atoi(ref); err == nil {
		if i < 0 || i >= len(c.Available) {
			return -1, fmt.Errorf("%w: index %d", ErrGroupNotFound, i)
		}
		return i, nil
	}
	if i := c.IndexOf(ref); i >= 0 {
		return i, nil
	}
	for i, g := range c.Available {
		if strings.EqualFold(g.Name, ref) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrGroupNotFound, ref)
}
