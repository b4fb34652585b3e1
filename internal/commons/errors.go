package commons

import "errors"

var ErrRecordNotFound = errors.New("Record not found")
var ErrInsufficientBalance = errors.New("Insufficient balance")
var ErrDuplicateRecord = errors.New("Record already exists")
var ErrInvalidCredentials = errors.New("Invalid credentials")
var ErrSelfTransfer = errors.New("Sender and recipient cannot be the same")
var ErrUnauthorized = errors.New("Not authorized")
