package scripts

// ProxyFunction is one function property of a generated proxy object.
// Params holds the serialized request parameter object.
type ProxyFunction struct {
	Name   string   `json:"name"`
	Args   []string `json:"args"`
	URL    string   `json:"url"`
	Method string   `json:"method"`
	Params string   `json:"params"`
}

// ProxyData feeds the proxy template.
type ProxyData struct {
	Functions []ProxyFunction `json:"functions"`
}

// FormPanelData feeds the form panel template. Component is the
// "var X = new Ext.FormPanel(...)" statement.
type FormPanelData struct {
	Component   string `json:"component"`
	Variable    string `json:"variable"`
	ContainerID string `json:"container_id"`
}

// Container operation kinds.
const (
	OpTools     = "tools"
	OpResizable = "resizable"
	OpSetter    = "setter"
	OpAssign    = "assign"
)

// ContainerOp is one update applied to the container component. Value is
// JavaScript source.
type ContainerOp struct {
	Kind   string `json:"kind"`
	Key    string `json:"key,omitempty"`
	Method string `json:"method,omitempty"`
	Value  string `json:"value"`
}

// ContainerData feeds the container template.
type ContainerData struct {
	ContainerID string        `json:"container_id"`
	Ops         []ContainerOp `json:"ops"`
	InitTools   bool          `json:"init_tools"`
	Center      bool          `json:"center"`
}

// RemoteValueData feeds the remote value template. Params is an url-encoded
// query string.
type RemoteValueData struct {
	URL      string `json:"url"`
	Params   string `json:"params"`
	Callback string `json:"callback"`
}

// IncludesData feeds the includes template.
type IncludesData struct {
	Stylesheets []string `json:"stylesheets"`
	Scripts     []string `json:"scripts"`
}
