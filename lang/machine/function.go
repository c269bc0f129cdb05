package machine

import "github.com/ember-lang/ember/lang/compiler"

// Function is the compiled, runtime-shared record of a function body. It is
// exactly the compiler's Function type: immutable once produced, and never
// copied, so every closure created from the same ResolvedFnDecl shares one
// Function and one Chunk.
type Function = compiler.Function

// Chunk is the compiler's compiled bytecode unit, re-exported so callers of
// this package never need to import lang/compiler directly just to hold a
// reference to one.
type Chunk = compiler.Chunk
