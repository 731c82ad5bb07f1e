package main

import "testing"

func TestDepCmd_Exists(t *testing.T) {
	if depCmd == nil {
		t.Error("depCmd should not be nil")
	}
}

func TestDepAddCmd_Exists(t *testing.T) {
	if depAddCmd == nil {
		t.Error("depAddCmd should not be nil")
	}
}

func TestDepAddCmd_Use(t *testing.T) {
	if depAddCmd.Use != "add <child> <parent>" {
		t.Errorf("depAddCmd.Use = %s, expected 'add <child> <parent>'", depAddCmd.Use)
	}
}

func TestDepRmCmd_Exists(t *testing.T) {
	if depRmCmd == nil {
		t.Error("depRmCmd should not be nil")
	}
}

func TestDepListCmd_Exists(t *testing.T) {
	if depListCmd == nil {
		t.Error("depListCmd should not be nil")
	}
}
