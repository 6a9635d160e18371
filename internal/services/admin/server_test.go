package admin

import "testing"

func TestLoadServerEnvDefaults(t *testing.T) {
	cfg, err := loadServerEnv()
	if err != nil {
		t.Fatalf("load server env: %v", err)
	}
	// :8081 belongs to the api runtime's health listener, so the admin
	// default must stay on a different port for both to run on one host.
	if cfg.Addr != ":8082" {
		t.Fatalf("Addr = %q, want :8082", cfg.Addr)
	}
	if cfg.DataDir != "data" {
		t.Fatalf("DataDir = %q, want data", cfg.DataDir)
	}
}
