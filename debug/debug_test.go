package debug

import (
	"errors"
	"testing"
)

func TestDropErrorDoesNotPanic(t *testing.T) {
	DropError(TagArbiter, errors.New("boom"))
	DropError(TagFeedA, nil)
}

func TestDropMessageDoesNotPanic(t *testing.T) {
	DropMessage(TagBook, "depth exceeded soft limit")
	DropMessage(TagBoot, "")
}
