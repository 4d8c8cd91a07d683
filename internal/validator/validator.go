package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/sample"
)

// ValidateSample checks every container of a sample file and reports all
// problems at once: duplicate names, undecodable entries, and settings that
// are accepted but have no effect.
func ValidateSample(file *sample.File) error {
	seen := make(map[string]int)
	var errors []string

	for i, e := range file.Entries {
		label := fmt.Sprintf("container %d (%s)", i, e.Name)

		if first, dup := seen[e.Name]; dup {
			errors = append(errors, fmt.Sprintf("%s: name already used by container %d", label, first))
		} else {
			seen[e.Name] = i
		}

		if _, err := e.Node(); err != nil {
			errors = append(errors, fmt.Sprintf("%s: %v", label, err))
			continue
		}

		if e.Shape == sample.ShapeCursor && e.Value == nil {
			errors = append(errors, fmt.Sprintf("%s: cursor shape without a value", label))
		}
		if e.Position != 0 && e.Shape != sample.ShapeCursor {
			errors = append(errors, fmt.Sprintf("%s: position is only used by the cursor shape", label))
		}
		if e.Deferred && e.Value == nil {
			errors = append(errors, fmt.Sprintf("%s: deferred without a value", label))
		}
		if e.Empty && e.Size != nil {
			errors = append(errors, fmt.Sprintf("%s: size is ignored for an empty container", label))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}

	return nil
}
