package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseConfigAddr(t *testing.T) {
	cfg := DatabaseConfig{Dialect: "mysql", Host: "10.0.0.5", Port: 3306, Database: "marzban"}
	assert.Equal(t, "marzban@10.0.0.5:3306", cfg.Addr())
}

func TestSameDatabase(t *testing.T) {
	base := DatabaseConfig{Dialect: "mysql", Host: "db", Port: 3306, Username: "a", Database: "panel"}

	tests := []struct {
		name  string
		other DatabaseConfig
		want  bool
	}{
		{"identical", base, true},
		{"different credentials still same rows", DatabaseConfig{Dialect: "mysql", Host: "db", Port: 3306, Username: "b", Password: "x", Database: "panel"}, true},
		{"different database", DatabaseConfig{Host: "db", Port: 3306, Database: "other"}, false},
		{"different port", DatabaseConfig{Host: "db", Port: 3307, Database: "panel"}, false},
		{"different host", DatabaseConfig{Host: "db2", Port: 3306, Database: "panel"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.SameDatabase(&tt.other))
		})
	}
}
