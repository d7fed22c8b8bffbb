// Package seed provides data generation for populating a kennel registry.
package seed

import "github.com/kennelworks/pedigree/internal/models"

// BreedSpec describes a breed the generator can populate.
type BreedSpec struct {
	Name   string
	Group  models.BreedGroup
	Colors []string
}

// Breeds is the set of breeds seeded into a new registry. The names match
// the default heritable-condition associations.
var Breeds = []BreedSpec{
	{"Border Collie", models.BreedGroupHerding, []string{"black and white", "red and white", "blue merle", "tricolour"}},
	{"Labrador Retriever", models.BreedGroupSporting, []string{"black", "yellow", "chocolate"}},
	{"German Shepherd", models.BreedGroupHerding, []string{"black and tan", "sable", "black"}},
	{"Whippet", models.BreedGroupHound, []string{"brindle", "fawn", "white and fawn", "blue"}},
	{"Cavalier King Charles Spaniel", models.BreedGroupToy, []string{"Blenheim", "tricolour", "ruby", "black and tan"}},
}

// KennelAffixes are registered kennel names prefixed to a dog's call name.
var KennelAffixes = []string{
	"Ashgrove", "Brackenhill", "Coldharbour", "Dunmore", "Eskdale",
	"Fernleigh", "Glenbrae", "Hollowmere", "Invercarn", "Kestrelmoor",
	"Larchwood", "Mistral", "Northcote", "Oakhurst", "Penrhos",
}

// DogNames are call names for males.
var DogNames = []string{
	"Ajax", "Bracken", "Cap", "Dash", "Ember", "Finn", "Glen", "Hemp",
	"Jock", "Kip", "Laddie", "Moss", "Nap", "Oban", "Pip", "Quill",
	"Rab", "Sweep", "Tam", "Wull", "Yarrow", "Zed", "Bran", "Corrie",
	"Drift", "Flint", "Gael", "Heath", "Rook", "Storm",
}

// BitchNames are call names for females.
var BitchNames = []string{
	"Bess", "Clover", "Dot", "Eilidh", "Fly", "Gyp", "Hazel", "Ivy",
	"Jess", "Kale", "Lass", "Meg", "Nell", "Opal", "Penny", "Queenie",
	"Rose", "Sian", "Tess", "Una", "Vale", "Wren", "Bonnie", "Cara",
	"Dawn", "Fern", "Heather", "Mirk", "Skye", "Tibby",
}

// MalformedDates are date-of-birth strings as found in hand-kept imports.
// None parse; analysis falls back to the unknown-date sentinel.
var MalformedDates = []string{
	"circa 2014",
	"14th March",
	"2016-13-41",
	"03/15/2016",
	"unknown",
	"",
}
