// Package pkg provides the core libraries for regcraft register-map editing.
//
// # Overview
//
// Regcraft edits hardware memory-map documents: YAML files describing address
// blocks, registers, and bit fields. The pkg directory is organized around
// the editing pipeline:
//
//  1. [document] - YAML tree access, path addressing, debounced host pushes
//  2. [regmap] - the typed memory-map model and its tree codec
//  3. [layout] - repacking, spatial insertion, and the segment partition
//  4. [gesture] - interactive drag state machines over the segment model
//  5. [session] - stateful editing sessions tying the layers together
//  6. [render] - diagram output (DOT, SVG, PNG, PDF, register strips)
//  7. [snapshot], [store] - crash-recovery snapshots and the map library
//
// # Architecture
//
// The typical data flow through an editing session:
//
//	YAML document text
//	         ↓
//	    [document] package (generic tree + selection root)
//	         ↓
//	    [regmap] package (typed model, validation)
//	         ↓
//	    [layout] / [gesture] packages (edits, repacking, drags)
//	         ↓
//	    [session] package (commit: serialize, push, snapshot)
//
// Supporting packages: [bitrange] parses and formats "[hi:lo]" range
// strings, [errors] carries coded errors with user-facing messages, and
// [buildinfo] holds version metadata injected at link time.
package pkg
