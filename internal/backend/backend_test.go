package backend

import (
	"context"
	"testing"
)

func TestTypeIsValid(t *testing.T) {
	tests := []struct {
		input Type
		want  bool
	}{
		{Memory, true},
		{Mongo, true},
		{SQLite, true},
		{Type("postgres"), false},
		{Type(""), false},
	}
	for _, tt := range tests {
		if got := tt.input.IsValid(); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "memory needs nothing", cfg: Config{Type: Memory}},
		{
			name: "mongo with settings",
			cfg:  Config{Type: Mongo, MongoURI: "mongodb://localhost:27017", MongoDatabase: "chai-fi"},
		},
		{name: "mongo without URI", cfg: Config{Type: Mongo, MongoDatabase: "chai-fi"}, wantErr: true},
		{name: "mongo without database", cfg: Config{Type: Mongo, MongoURI: "mongodb://localhost:27017"}, wantErr: true},
		{name: "sqlite with path", cfg: Config{Type: SQLite, SQLitePath: "./data/test.db"}},
		{name: "sqlite without path", cfg: Config{Type: SQLite}, wantErr: true},
		{name: "unknown type", cfg: Config{Type: Type("postgres")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOpenMemory(t *testing.T) {
	result, err := Open(context.Background(), Config{Type: Memory}, nil)
	if err != nil {
		t.Fatalf("open memory backend: %v", err)
	}
	defer result.Store.Close()

	if result.Active != Memory {
		t.Errorf("active backend = %s, want memory", result.Active)
	}
	if result.Store == nil {
		t.Fatal("store should not be nil")
	}
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	if _, err := Open(context.Background(), Config{Type: Type("postgres")}, nil); err == nil {
		t.Error("invalid config should fail")
	}
}
