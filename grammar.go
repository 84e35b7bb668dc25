package textcall

// Tag literals of the embedded calling convention.
//
// The serializer (schema.go), both parsers (parse.go, stream_parser.go), and
// the result formatter (result.go) all speak this vocabulary; a change to any
// tag here changes the wire format for all four at once.
const (
	tagTextOpen  = "<text>"
	tagTextClose = "</text>"

	tagToolUseOpen  = "<tool_use>"
	tagToolUseClose = "</tool_use>"

	tagToolNameOpen  = "<tool_name>"
	tagToolNameClose = "</tool_name>"

	tagToolCallIDOpen  = "<tool_call_id>"
	tagToolCallIDClose = "</tool_call_id>"

	tagArgumentsOpen  = "<arguments>"
	tagArgumentsClose = "</arguments>"

	tagToolResultOpen  = "<tool_result>"
	tagToolResultClose = "</tool_result>"

	tagContentOpen  = "<content>"
	tagContentClose = "</content>"

	tagErrorOpen  = "<error>"
	tagErrorClose = "</error>"
)
