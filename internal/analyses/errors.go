package analyses

import "errors"

// ErrUnparseableResponse marks a model reply that did not contain a decodable JSON object.
var ErrUnparseableResponse = errors.New("unparseable model response")

// Messages returned to callers; details stay in the server log.
const (
	msgMissingFile     = "No document part in the request"
	msgEmptyFilename   = "No selected file"
	msgUnsupportedType = "Unsupported file type. Please upload a .pdf or .txt file."
	msgUnreadableFile  = "Could not read text from the uploaded document."
	msgTooLarge        = "Uploaded document is too large."
	msgAnalyzeFailed   = "Failed to analyze document."
)
