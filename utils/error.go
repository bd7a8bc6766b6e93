package utils

import "errors"

var (
	ErrorRecordNotFound    = errors.New("record not found")
	ErrorForbiddenOutlet   = errors.New("outlet not accessible")
	ErrorDuplicateDocument = errors.New("duplicate document content")
	ErrorDocumentCommitted = errors.New("document already committed")
)

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
