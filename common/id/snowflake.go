package id

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var ErrInvalid = errors.New("invalid id")

var (
	node *snowflake.Node
	once sync.Once
)

// Init initializes the Snowflake node with the given node ID. Only the first
// call has an effect.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New generates a time-ordered id for visits, scores, audits and teachers.
// Init must have been called.
func New() int64 {
	return node.Generate().Int64()
}

// Parse reads an id from a URL path segment.
func Parse(s string) (int64, error) {
	sf, err := snowflake.ParseString(s)
	if err != nil || sf.Int64() <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	return sf.Int64(), nil
}
