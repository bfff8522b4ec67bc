package errors

import (
	"fmt"
	"html"
	"sync"
	"time"
)

// PageError records a problem encountered while building one page.
type PageError struct {
	Route     string
	Component string
	Message   string
	Severity  ErrorSeverity
	Timestamp time.Time
}

// ErrorSeverity represents the severity of an error
type ErrorSeverity int

const (
	ErrorSeverityInfo ErrorSeverity = iota
	ErrorSeverityWarning
	ErrorSeverityError
	ErrorSeverityFatal
)

// String returns the string representation of the severity
func (s ErrorSeverity) String() string {
	switch s {
	case ErrorSeverityInfo:
		return "info"
	case ErrorSeverityWarning:
		return "warning"
	case ErrorSeverityError:
		return "error"
	case ErrorSeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error implements the error interface
func (pe *PageError) Error() string {
	if pe.Component == "" {
		return fmt.Sprintf("%s: %s: %s", pe.Route, pe.Severity, pe.Message)
	}
	return fmt.Sprintf("%s [%s]: %s: %s", pe.Route, pe.Component, pe.Severity, pe.Message)
}

// ErrorCollector collects page errors and general errors across a build
type ErrorCollector struct {
	pageErrors []PageError
	errors     []error
	mutex      sync.RWMutex
}

// NewErrorCollector creates a new error collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		pageErrors: make([]PageError, 0),
		errors:     make([]error, 0),
	}
}

// Add adds a page error to the collector
func (ec *ErrorCollector) Add(err PageError) {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	err.Timestamp = time.Now()
	ec.pageErrors = append(ec.pageErrors, err)
}

// AddError adds a general error to the collector
func (ec *ErrorCollector) AddError(err error) {
	if err == nil {
		return
	}
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.errors = append(ec.errors, err)
}

// GetErrors returns a copy of the collected page errors
func (ec *ErrorCollector) GetErrors() []PageError {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	result := make([]PageError, len(ec.pageErrors))
	copy(result, ec.pageErrors)
	return result
}

// GetAllErrors returns all collected errors (page and general)
func (ec *ErrorCollector) GetAllErrors() []error {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()

	allErrors := make([]error, 0, len(ec.pageErrors)+len(ec.errors))
	for i := range ec.pageErrors {
		allErrors = append(allErrors, &ec.pageErrors[i])
	}
	allErrors = append(allErrors, ec.errors...)

	return allErrors
}

// HasErrors returns true if there are any errors
func (ec *ErrorCollector) HasErrors() bool {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.pageErrors) > 0 || len(ec.errors) > 0
}

// Clear clears all errors
func (ec *ErrorCollector) Clear() {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.pageErrors = ec.pageErrors[:0]
	ec.errors = ec.errors[:0]
}

// GetErrorsByRoute returns errors for a specific page route
func (ec *ErrorCollector) GetErrorsByRoute(route string) []PageError {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	var routeErrors []PageError
	for _, err := range ec.pageErrors {
		if err.Route == route {
			routeErrors = append(routeErrors, err)
		}
	}
	return routeErrors
}

// GetErrorsByComponent returns errors for a specific component
func (ec *ErrorCollector) GetErrorsByComponent(component string) []PageError {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	var componentErrors []PageError
	for _, err := range ec.pageErrors {
		if err.Component == component {
			componentErrors = append(componentErrors, err)
		}
	}
	return componentErrors
}

// ErrorOverlay generates the HTML overlay the preview server injects after a failed build
func (ec *ErrorCollector) ErrorOverlay() string {
	if !ec.HasErrors() {
		return ""
	}

	out := `
<div id="sparkle-error-overlay" style="position: fixed; inset: 0; background: rgba(0, 0, 0, 0.8); color: white; font-family: 'Monaco', 'Menlo', monospace; font-size: 14px; z-index: 9999; padding: 20px; overflow: auto;">
	<div style="max-width: 1000px; margin: 0 auto;">
		<div style="display: flex; justify-content: space-between; align-items: center; margin-bottom: 20px;">
			<h2 style="margin: 0; color: #ff6b6b;">Build Errors</h2>
			<button onclick="document.getElementById('sparkle-error-overlay').style.display='none'" aria-label="Close error overlay"
					style="background: none; border: 1px solid #ccc; color: white; padding: 5px 10px; cursor: pointer;">
				Close
			</button>
		</div>
		<div>`

	ec.mutex.RLock()
	for _, err := range ec.pageErrors {
		severityColor := "#ff6b6b"
		switch err.Severity {
		case ErrorSeverityWarning:
			severityColor = "#feca57"
		case ErrorSeverityInfo:
			severityColor = "#48dbfb"
		}

		out += fmt.Sprintf(`
			<div style="background: #2d3748; padding: 15px; margin-bottom: 15px; border-radius: 4px; border-left: 4px solid %s;">
				<div style="display: flex; justify-content: space-between; margin-bottom: 10px;">
					<span style="color: %s; font-weight: bold;">%s</span>
					<span style="color: #a0aec0; font-size: 12px;">%s</span>
				</div>
				<div style="color: #e2e8f0; margin-bottom: 5px;"><strong>%s</strong></div>
				<div style="color: #a0aec0; font-size: 12px;">%s %s</div>
			</div>`,
			severityColor, severityColor, err.Severity.String(), err.Timestamp.Format("15:04:05"),
			html.EscapeString(err.Message), html.EscapeString(err.Route), html.EscapeString(err.Component))
	}
	for _, err := range ec.errors {
		out += fmt.Sprintf(`
			<div style="background: #2d3748; padding: 15px; margin-bottom: 15px; border-radius: 4px; border-left: 4px solid #ff6b6b;">
				<div style="color: #e2e8f0;"><strong>%s</strong></div>
			</div>`, html.EscapeString(err.Error()))
	}
	ec.mutex.RUnlock()

	out += `
		</div>
	</div>
</div>`

	return out
}
