package main

import _ "embed"

//go:embed runtime/charta_rt.h
var runtimeHeader string

//go:embed runtime/charta_rt.c
var runtimeSource string
