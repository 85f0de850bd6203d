package errors_test

import (
	"fmt"

	"github.com/lunehart/pixelgrid/pkg/errors"
)

func ExampleNew() {
	err := errors.New(errors.ErrCodeInvalidKind, "unknown node kind: %s", "swirl")
	fmt.Println(err)
	// Output:
	// INVALID_KIND: unknown node kind: swirl
}

func ExampleWrap() {
	cause := fmt.Errorf("disk full")
	err := errors.Wrap(errors.ErrCodeCache, cause, "store run %s", "r-42")
	fmt.Println(err)
	// Output:
	// CACHE_ERROR: store run r-42: disk full
}

func ExampleIs() {
	err := errors.New(errors.ErrCodeNodeNotFound, "no node named %q", "halo")
	fmt.Println(errors.Is(err, errors.ErrCodeNodeNotFound))
	fmt.Println(errors.Is(err, errors.ErrCodeCycle))
	// Output:
	// true
	// false
}

func ExampleUserMessage() {
	coded := errors.New(errors.ErrCodeInvalidPort, "port 3 out of range")
	plain := fmt.Errorf("connection refused")
	fmt.Println(errors.UserMessage(coded))
	fmt.Println(errors.UserMessage(plain))
	// Output:
	// port 3 out of range
	// connection refused
}
