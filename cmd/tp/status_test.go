package main

import "testing"

func TestClaimCmd_Exists(t *testing.T) {
	if claimCmd == nil {
		t.Error("claimCmd should not be nil")
	}
}

func TestClaimCmd_Use(t *testing.T) {
	if claimCmd.Use != "claim <id>" {
		t.Errorf("claimCmd.Use = %s, expected 'claim <id>'", claimCmd.Use)
	}
}

func TestDoneCmd_Exists(t *testing.T) {
	if doneCmd == nil {
		t.Error("doneCmd should not be nil")
	}
}

func TestDoneCmd_Use(t *testing.T) {
	if doneCmd.Use != "done <id>" {
		t.Errorf("doneCmd.Use = %s, expected 'done <id>'", doneCmd.Use)
	}
}

func TestReleaseCmd_Exists(t *testing.T) {
	if releaseCmd == nil {
		t.Error("releaseCmd should not be nil")
	}
}

func TestReleaseCmd_HasForceFlag(t *testing.T) {
	flag := releaseCmd.Flags().Lookup("force")
	if flag == nil {
		t.Error("releaseCmd should have --force flag")
	}
}
