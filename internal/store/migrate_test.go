package store

import "testing"

func TestPgx5URL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgres://u:p@localhost:5432/db", "pgx5://u:p@localhost:5432/db"},
		{"postgresql://u:p@localhost/db?sslmode=disable", "pgx5://u:p@localhost/db?sslmode=disable"},
		{"pgx5://u@localhost/db", "pgx5://u@localhost/db"},
		{"host=localhost dbname=db", "host=localhost dbname=db"},
	}
	for _, tt := range tests {
		if got := pgx5URL(tt.in); got != tt.want {
			t.Fatalf("pgx5URL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
