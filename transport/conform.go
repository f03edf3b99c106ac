package transport

import "github.com/flashworks/go-nandprog/programmer"

var _ programmer.Transport = (*Loopback)(nil)
var _ programmer.Transport = (*Serial)(nil)
