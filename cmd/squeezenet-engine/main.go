// Command squeezenet-engine runs the streaming convolutional inference
// engine against a network description, packed weights and an input image.
package main

func main() {
	Execute()
}
