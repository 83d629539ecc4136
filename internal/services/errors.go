package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExternalTool marks failures reported by ffmpeg or ffprobe invocations.
	ErrExternalTool = errors.New("external tool error")
	// ErrMissingInput marks scenes or clips whose backing file does not exist.
	ErrMissingInput = errors.New("missing input")
	// ErrNoValidScenes marks a merge attempted with zero usable composed scenes.
	ErrNoValidScenes = errors.New("no valid scenes")
	// ErrConfiguration marks unusable configuration discovered at run time.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Truncate shortens tool output for log records, keeping the leading detail.
func Truncate(detail string, limit int) string {
	detail = strings.TrimSpace(detail)
	if limit <= 0 || len(detail) <= limit {
		return detail
	}
	return detail[:limit]
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
