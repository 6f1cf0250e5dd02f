package main

func main() {
	New().Execute()
}
