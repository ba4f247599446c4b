package database

import "testing"

func TestDSN(t *testing.T) {
	cfg := &Config{Host: "db", Port: "5433", User: "hw", Password: "secret", DBName: "healthwatch"}
	want := "host=db user=hw password=secret dbname=healthwatch port=5433 sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
