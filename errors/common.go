package errors

func ValidationFailedErr(err error) error {
	return E(Invalid, "validation failed", err)
}

func EmptyParamErr(field string) error {
	ve := ValidationErrs()
	ve.Add(field, "cannot be empty")
	return E(Invalid, "validation failed", ve.Err())
}

// LogUnavailableErr wraps a failure to reach the durable append log.
func LogUnavailableErr(err error) error {
	return E(Unavailable, "append log unavailable", err)
}

// BatchApplyErr wraps a failure inside the worker's transactional batch
// update. The batch has been rolled back when this is returned.
func BatchApplyErr(err error) error {
	return E(Internal, "batch apply failed", err)
}
