package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrInvalidFilter = ErrorResponse{
		Status:  "error",
		Error:   "invalid_filter",
		Details: "Unknown filter or sort value",
	}

	ErrMediaNotFound = ErrorResponse{
		Status:  "error",
		Error:   "media_not_found",
		Details: "Media item does not exist",
	}

	ErrListingSyncFailed = ErrorResponse{
		Status: "error",
		Error:  "listing_sync_failed",
	}

	ErrInternal = ErrorResponse{
		Status:  "error",
		Error:   "internal_error",
		Details: "Something went wrong",
	}
)
