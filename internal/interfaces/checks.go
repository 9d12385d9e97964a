package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/kindle-library/internal/clippings"
	"github.com/mrlokans/kindle-library/internal/covers"
	"github.com/mrlokans/kindle-library/internal/exclusions"
	"github.com/mrlokans/kindle-library/internal/http"
	"github.com/mrlokans/kindle-library/internal/library"
)

// ExclusionStore implementations
var _ http.ExclusionStore = (*exclusions.Store)(nil)

// ExclusionSource implementations
var _ clippings.ExclusionSource = (*exclusions.Store)(nil)

// BookAssembler implementations
var _ http.BookAssembler = (*library.Assembler)(nil)

// Cover pipeline implementations
var _ library.BookParser = (*clippings.Parser)(nil)
var _ library.CoverCache = (*covers.Cache)(nil)
var _ library.CoverResolver = (*covers.Resolver)(nil)
