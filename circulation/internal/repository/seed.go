package repository

import "github.com/Astemirdum/library-circulation/circulation/internal/model"

// DemoCopies mirrors the rows inserted by the seed migration.
func DemoCopies() []model.Copy {
	return []model.Copy{
		{CopyID: "B-0001", Title: "The Go Programming Language", Author: "Alan Donovan", Genre: "Programming", ISBN: "9780134190440", Branch: model.BranchWarrensburg, Location: "Shelf A1", Availability: true},
		{CopyID: "B-0002", Title: "The Go Programming Language", Author: "Alan Donovan", Genre: "Programming", ISBN: "9780134190440", Branch: model.BranchLeesSummit, Location: "Shelf C4", Availability: true},
		{CopyID: "B-0003", Title: "Designing Data-Intensive Applications", Author: "Martin Kleppmann", Genre: "Databases", ISBN: "9781449373320", Branch: model.BranchWarrensburg, Location: "Shelf B2", Availability: true},
		{CopyID: "B-0004", Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", ISBN: "9780441172719", Branch: model.BranchLeesSummit, Location: "Shelf F7", Availability: true},
	}
}

func DemoAccounts() []model.Account {
	return []model.Account{
		{BorrowerID: "S1", Email: "s1@students.example.edu"},
		{BorrowerID: "S2", Email: "s2@students.example.edu"},
	}
}
