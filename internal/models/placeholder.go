package models

import _ "embed"

// PlaceholderID is the id of the builtin model every loading or failed model draws as.
const PlaceholderID = "box"

// builtinBox is a unit cube with POSITION, NORMAL and TEXCOORD_0.
//
//go:embed builtin/box.glb
var builtinBox []byte
