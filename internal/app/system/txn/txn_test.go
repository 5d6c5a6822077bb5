package txn

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsNotSupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some random error"), false},
		{"standalone code 20", mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member"}, true},
		{"illegal operation code 51", mongo.CommandError{Code: 51, Message: "Illegal operation"}, true},
		{"operation not supported code 263", mongo.CommandError{Code: 263, Message: "Cannot run in a multi-document transaction"}, true},
		{"unrelated command error code", mongo.CommandError{Code: 100, Message: "Some other error"}, false},
		{"replica set keyword pair", errors.New("transaction failed because this is not a replica set member"), true},
		{"session not supported pair", errors.New("session operations are not supported on this server"), true},
		{"transaction keyword alone", errors.New("transaction failed"), false},
		{"transaction and session pair", errors.New("cannot start transaction in current session state"), true},
		{"illegal operation keyword", errors.New("illegal operation during transaction"), true},
		{"uppercase keywords", errors.New("TRANSACTION FAILED on REPLICA SET"), true},
		{"mixed case keywords", errors.New("Transaction Session error"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotSupported(tt.err); got != tt.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
