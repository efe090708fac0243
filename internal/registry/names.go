package registry

import "math/rand"

var adjectives = []string{
	"Happy", "Sad", "Angry", "Funny", "Clever", "Brave",
	"Quiet", "Loud", "Fast", "Slow", "Red", "Blue",
	"Green", "Yellow", "Purple", "Orange", "Pink",
	"White", "Black", "Brown",
}

var animals = []string{
	"Dog", "Cat", "Bird", "Fish", "Lion", "Tiger",
	"Bear", "Wolf", "Fox", "Rabbit", "Mouse", "Rat",
	"Horse", "Cow", "Pig", "Sheep", "Goat", "Chicken",
	"Duck", "Goose",
}

// RandomName picks one adjective and one animal uniformly at random, with
// replacement. Two participants may end up with the same name; that is
// accepted behavior, not deduplicated.
func RandomName() string {
	adjective := adjectives[rand.Intn(len(adjectives))]
	animal := animals[rand.Intn(len(animals))]
	return adjective + " " + animal
}
