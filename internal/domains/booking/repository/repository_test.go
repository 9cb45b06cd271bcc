package repository_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"courtbook/internal/domains/booking/repository"
)

func TestIsConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "unique violation",
			err:  &pq.Error{Code: "23505"},
			want: true,
		},
		{
			name: "exclusion violation",
			err:  &pq.Error{Code: "23P01"},
			want: true,
		},
		{
			name: "wrapped exclusion violation",
			err:  fmt.Errorf("failed to insert reservation: %w", &pq.Error{Code: "23P01"}),
			want: true,
		},
		{
			name: "foreign key violation",
			err:  &pq.Error{Code: "23503"},
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("connection refused"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repository.IsConflict(tt.err))
		})
	}
}
