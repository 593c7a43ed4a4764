/*

Process of compilation

Abstract Syntax Tree (ast) ->
	front.Build ->
Three-Address Code (ir) ->
	back.Select ->
Assembly over pseudo registers (asm) ->
	back.Passes: stack, mov, idiv, arith ->
Legalized assembly (asm) ->
	[verify.Program] ->
	emit.Program ->
Assembly Text ->
	external assembler and linker ->
Binary Executable

*/
package compiler
