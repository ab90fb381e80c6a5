package models

import "testing"

func TestExchangeSharedPredicates(t *testing.T) {
	var nilEx *ContactExchange
	if nilEx.DonorShared() || nilEx.RequesterShared() || nilEx.BothShared() {
		t.Fatal("nil exchange must count as nothing shared")
	}

	ex := &ContactExchange{DonorPhone: "123"}
	if !ex.DonorShared() {
		t.Fatal("phone alone should count as shared")
	}
	if ex.RequesterShared() {
		t.Fatal("requester side is empty")
	}
	if ex.BothShared() {
		t.Fatal("one-sided share must not unlock completion")
	}

	ex.RequesterAddress = "42 Library Lane"
	if !ex.BothShared() {
		t.Fatal("address alone should count as shared")
	}
}
