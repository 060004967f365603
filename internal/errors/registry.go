package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Descriptions (A001-A009)
	"A001": {
		Category:   CategoryDescription,
		Message:    "Malformed description: missing or invalid kind",
		Suggestion: "Build elements with the el package or fiber.Host, fiber.Text and fiber.Render so every node carries a host tag or a component.",
	},
	"A002": {
		Category:   CategoryDescription,
		Message:    "Malformed description: children is not a sequence of elements",
		Suggestion: "The children prop must hold a []*fiber.Element with no nil entries.",
	},
	"A003": {
		Category: CategoryComponent,
		Message:  "Component panicked during render",
	},
	"A004": {
		Category:   CategoryDescription,
		Message:    "Malformed description: event prop is not an event handler",
		Suggestion: "Bind listeners with el.On or fiber.Handler so they have a comparable identity.",
	},

	// Host adapter (A010-A019)
	"A010": {
		Category: CategoryHost,
		Message:  "Host adapter failed while materializing a node",
	},
	"A011": {
		Category:   CategoryHost,
		Message:    "Host adapter failed during commit",
		Suggestion: "The host tree may be partially mutated; the next render reconciles against the last committed generation.",
	},

	// Scheduler (A020-A029)
	"A020": {
		Category: CategoryScheduler,
		Message:  "Render pass superseded by a newer render request",
	},

	// Config and files (A030-A039)
	"A030": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
	"A031": {
		Category: CategoryConfig,
		Message:  "Configuration file could not be read",
	},
	"A032": {
		Category:   CategoryConfig,
		Message:    "Invalid description file",
		Suggestion: "Each node needs exactly one of tag, text or component.",
	},
	"A033": {
		Category:   CategoryConfig,
		Message:    "Unknown component",
		Suggestion: "Register the component name before loading the description file.",
	},

	// Protocol (A040-A049)
	"A040": {
		Category: CategoryProtocol,
		Message:  "Malformed protocol frame",
	},
	"A041": {
		Category: CategoryProtocol,
		Message:  "Unknown remote handle",
	},
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}
