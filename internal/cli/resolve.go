package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// parseProjectID accepts "3" or "#3".
func parseProjectID(input string) (int, error) {
	text := strings.TrimPrefix(strings.TrimSpace(input), "#")
	if text == "" {
		return 0, fmt.Errorf("project ID is required")
	}
	id, err := strconv.Atoi(text)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid project ID %q", input)
	}
	return id, nil
}
