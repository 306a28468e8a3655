package main

import "github.com/roboscan/roboscan/cmd/roboscan"

func main() { roboscan.Execute() }
