package mcp

// EmptyInput is the input for tools that take no arguments.
type EmptyInput struct{}

// SetClickThroughInput is the input for the set_click_through tool.
type SetClickThroughInput struct {
	Enabled bool `json:"enabled" jsonschema:"required,true to let clicks pass through the pet window"`
}

// ActionOutput is returned by tools that change pet state.
type ActionOutput struct {
	Action string `json:"action"`
	OK     bool   `json:"ok"`
}

// QuadrantOutput is the output for the pet_quadrant tool.
type QuadrantOutput struct {
	Known        bool   `json:"known"`
	IsRightHalf  bool   `json:"is_right_half"`
	IsBottomHalf bool   `json:"is_bottom_half"`
	Description  string `json:"description"`
}
