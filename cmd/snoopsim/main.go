// The snoopsim command runs a snoopy multi-cache simulation over an
// address trace.
package main

func main() {
	Execute()
}
