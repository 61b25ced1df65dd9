package main

import (
	"fmt"
	"log"

	"github.com/hupe1980/incdbscan"
)

func main() {
	db, err := incdbscan.New(
		incdbscan.WithEpsilon(1.5),
		incdbscan.WithMinPoints(3),
	)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("--- Insert ---")

	points := [][]float64{
		{0, 0}, {1, 0}, {0, 1}, // a small cluster
		{10, 10},               // an outlier
	}
	if err := db.Insert(points); err != nil {
		log.Fatal(err)
	}

	labels, err := db.GetClusterLabels(points)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("Labels:", labels) // [0 0 0 -1]

	fmt.Println("--- Grow a second cluster around the outlier ---")

	more := [][]float64{{10.5, 10}, {10, 10.5}, {10.5, 10.5}}
	if err := db.Insert(more); err != nil {
		log.Fatal(err)
	}

	labels, err = db.GetClusterLabels(append(points, more...))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("Labels:", labels) // [0 0 0 1 1 1 1]

	fmt.Println("--- Delete ---")

	found, err := db.Delete([][]float64{{10, 10}, {42, 42}})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("Found:", found) // [true false]
	fmt.Println("Live points:", db.Len())
}
