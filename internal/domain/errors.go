package domain

import "errors"

var (
	ErrUnsupportedEngine = errors.New("unsupported database engine")
	ErrDumpCommand       = errors.New("dump command failed")
	ErrCompression       = errors.New("archive creation failed")
	ErrUpload            = errors.New("upload failed")
	ErrList              = errors.New("object listing failed")
	ErrDelete            = errors.New("object deletion failed")
)
