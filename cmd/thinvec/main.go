// Command thinvec exercises thin vectors from the command line.
//
// Usage:
//
//	thinvec layout --size 4 --align 4 --cap 100
//	thinvec layout --size 16 --target wasm32 --json
//	thinvec run --file ops.txt
//	thinvec tui
package main

func main() {
	execute()
}
