package board

// Tool selects what a pointer gesture does.
type Tool int

const (
	ToolBrush Tool = iota
	ToolEraser
	ToolLine
	ToolRectangle
	ToolCircle
	ToolFill
	ToolPan
)

var toolNames = [...]string{
	ToolBrush:     "brush",
	ToolEraser:    "eraser",
	ToolLine:      "line",
	ToolRectangle: "rectangle",
	ToolCircle:    "circle",
	ToolFill:      "fill",
	ToolPan:       "pan",
}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return "unknown"
	}
	return toolNames[t]
}

// ParseTool maps a tool identifier to a Tool.
func ParseTool(name string) (Tool, bool) {
	for i, n := range toolNames {
		if n == name {
			return Tool(i), true
		}
	}
	return 0, false
}

// Tools lists every tool in toolbar order.
func Tools() []Tool {
	return []Tool{ToolBrush, ToolEraser, ToolLine, ToolRectangle, ToolCircle, ToolFill, ToolPan}
}

// incremental tools rasterize on every pointer move.
func (t Tool) incremental() bool {
	return t == ToolBrush || t == ToolEraser
}

// shape tools render once, at pointer-up.
func (t Tool) shape() bool {
	return t == ToolLine || t == ToolRectangle || t == ToolCircle
}
