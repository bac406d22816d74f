package respond

// Machine-readable error kinds returned in ErrorResponse.Code.
const (
	CodeMissingFile         = "missing_file"
	CodeEmptyFilename       = "empty_filename"
	CodeUnsupportedFileType = "unsupported_file_type"
	CodeUnreadableFile      = "unreadable_file"
	CodeMissingField        = "missing_field"
	CodeInvalidBody         = "invalid_body"
	CodePayloadTooLarge     = "payload_too_large"
	CodeProviderFailure     = "provider_failure"
	CodeUnparseableResponse = "unparseable_response"
	CodeInternal            = "internal"
)
