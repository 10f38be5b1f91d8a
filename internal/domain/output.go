package domain

// OutputFile describes one written topology file
type OutputFile struct {
	Subnet string `json:"subnet"`
	Path   string `json:"path"`
	Digest string `json:"digest"`
	Bytes  int64  `json:"bytes"`
}
