package controller

import "strings"

// DefaultExtension is the action suffix used when URLBuilder.Extension is
// empty.
const DefaultExtension = "ext"

// URLBuilder composes action URLs of the form
// <ApplicationPath>/[area/]controller/action.<Extension>.
type URLBuilder struct {
	ApplicationPath string
	Extension       string
}

// BuildURL returns the URL of an action.
func (b URLBuilder) BuildURL(area, controller, action string) string {
	return b.ControllerURL(area, controller) + action + "." + b.extension()
}

// ControllerURL returns the base URL of a controller, ending with a slash.
func (b URLBuilder) ControllerURL(area, controller string) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimRight(b.ApplicationPath, "/"))
	sb.WriteByte('/')
	if area = strings.Trim(area, "/"); area != "" {
		sb.WriteString(area)
		sb.WriteByte('/')
	}
	sb.WriteString(strings.Trim(controller, "/"))
	sb.WriteByte('/')
	return sb.String()
}

func (b URLBuilder) extension() string {
	ext := strings.TrimPrefix(strings.TrimSpace(b.Extension), ".")
	if ext == "" {
		return DefaultExtension
	}
	return ext
}
