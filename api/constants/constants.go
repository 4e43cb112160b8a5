package constants

// Common error messages
const (
	ErrInvalidJSON        = "invalid json or missing fields"
	ErrMissingUserID      = "Missing or invalid user_id in body"
	ErrDB                 = "DB error"
	ErrInvalidRequestBody = "Invalid request body"
	ErrMethodNotAllowed   = "Method Not Allowed"
)

// Import error messages shown to the uploader
const (
	ErrNoFileUploaded    = "No file uploaded"
	ErrUnreadableFile    = "Could not read the file. Check the format and try again"
	ErrNoIdentifierCol   = "The file has no article or name column, import aborted"
	ErrImportFailed      = "Import failed, catalog left unchanged"
	ErrMappingSaveFailed = "Failed to save column mapping"
)

// Collection error messages
const (
	ErrSessionNotFound  = "No active collection session"
	ErrItemNotFound     = "Item not found in catalog"
	ErrDeptMismatch     = "Item belongs to a different department than this session"
	ErrSettleNotActive  = "Session is already settled or abandoned"
	ErrSettlementFailed = "Settlement failed, nothing was written off"
)

// Content Types
const (
	ContentTypeText = "Content-Type"
	ContentTypeJSON = "application/json"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Date formats
const (
	DateTimeFormat  = "2006-01-02 15:04:05"
	DateFormat      = "2006-01-02"
	FileStampFormat = "02.01.06_15.04"
)

// NBSP is the non-breaking space that spreadsheet exports like to put
// inside numbers and headers
const NBSP = " "

// DeptUnassigned is the sentinel department code used when an item has no
// department, so a session lock can always be established
const DeptUnassigned = "000"

// SKULength is the fixed length of the digit run that identifies an item
const SKULength = 8

// Session lifecycle statuses
const (
	SessionActive    = "active"
	SessionAbandoned = "abandoned"
	SessionSaved     = "saved"
)
