package session_management

import "errors"

var ErrSessionNotFound = errors.New("session not found")
var ErrNoAvailableIds = errors.New("no available ids")
