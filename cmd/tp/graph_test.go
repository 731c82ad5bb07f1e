package main

import "testing"

func TestGraphCmd_Exists(t *testing.T) {
	if graphCmd == nil {
		t.Error("graphCmd should not be nil")
	}
}

func TestGraphStatusCmd_Exists(t *testing.T) {
	if graphStatusCmd == nil {
		t.Error("graphStatusCmd should not be nil")
	}
}

func TestGraphPathCmd_Exists(t *testing.T) {
	if graphPathCmd == nil {
		t.Error("graphPathCmd should not be nil")
	}
}

func TestRelatedCmd_Exists(t *testing.T) {
	if relatedCmd == nil {
		t.Error("relatedCmd should not be nil")
	}
}

func TestRelatedCmd_Use(t *testing.T) {
	if relatedCmd.Use != "related <id>" {
		t.Errorf("relatedCmd.Use = %s, expected 'related <id>'", relatedCmd.Use)
	}
}

func TestGraphCmd_HasStatusSubcommand(t *testing.T) {
	found := false
	for _, sub := range graphCmd.Commands() {
		if sub.Name() == "status" {
			found = true
		}
	}
	if !found {
		t.Error("graphCmd should have a status subcommand")
	}
}

func TestGraphCmd_HasPathSubcommand(t *testing.T) {
	found := false
	for _, sub := range graphCmd.Commands() {
		if sub.Name() == "path" {
			found = true
		}
	}
	if !found {
		t.Error("graphCmd should have a path subcommand")
	}
}
