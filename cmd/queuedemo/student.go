package main

import "fmt"

// Student is a queued lab submission.
type Student struct {
	ID      int
	Surname string
	Labs    int
}

func (s Student) String() string {
	return fmt.Sprintf("Student #%d %s (labs: %d)", s.ID, s.Surname, s.Labs)
}
