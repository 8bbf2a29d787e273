package task

import (
	"errors"
	"fmt"

	"github.com/BhaveshVarma1/Nirmaan/internal/model"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrGroupNotFound = fmt.Errorf("group %w", ErrNotFound)
	ErrTaskNotFound  = fmt.Errorf("task %w", ErrNotFound)
)

func groupNotFound(id model.GroupID) error {
	return fmt.Errorf("%w: %s", ErrGroupNotFound, id)
}

func taskNotFound(id model.TaskID) error {
	return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}
