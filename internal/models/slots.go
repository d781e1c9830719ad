package models

import (
	"cmp"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
)

// TimeSlots is the fixed enumeration of bookable appointment slots.
var TimeSlots = []string{
	"09:00 AM", "09:30 AM", "10:00 AM", "10:30 AM", "11:00 AM", "11:30 AM",
	"12:00 PM", "12:30 PM", "01:00 PM", "01:30 PM", "02:00 PM", "02:30 PM",
	"03:00 PM", "03:30 PM", "04:00 PM", "04:30 PM", "05:00 PM", "05:30 PM",
	"06:00 PM", "06:30 PM", "07:00 PM", "07:30 PM", "08:00 PM", "08:30 PM",
}

func IsTimeSlot(s string) bool {
	return lo.Contains(TimeSlots, s)
}

// SortSlots returns the distinct known slots of booked in enumeration order.
func SortSlots(booked []string) []string {
	set := lo.SliceToMap(booked, func(s string) (string, struct{}) { return s, struct{}{} })
	return lo.Filter(TimeSlots, func(s string, _ int) bool {
		_, ok := set[s]
		return ok
	})
}

// SlotIndex is the position of s in the enumeration, or len(TimeSlots) for
// unknown slots so they sort last.
func SlotIndex(s string) int {
	if i := lo.IndexOf(TimeSlots, s); i >= 0 {
		return i
	}
	return len(TimeSlots)
}

// SortAppointments orders appointments newest day first and, within a day,
// by slot in enumeration order. "12:00 PM" comes after "11:30 AM" here even
// though it sorts before it as text.
func SortAppointments(apts []Appointment) {
	slices.SortStableFunc(apts, func(a, b Appointment) int {
		if c := b.AppointmentDate.Compare(a.AppointmentDate); c != 0 {
			return c
		}
		return cmp.Compare(SlotIndex(a.TimeSlot), SlotIndex(b.TimeSlot))
	})
}

// FreeSlots returns the slots of the enumeration not present in booked.
func FreeSlots(booked []string) []string {
	return lo.Without(TimeSlots, booked...)
}

const DayLayout = "2006-01-02"

var ErrInvalidDate = errors.New("date must be YYYY-MM-DD or RFC3339")

// ParseDay accepts a calendar date or an RFC3339 timestamp and returns the
// calendar day it names as UTC midnight.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DayLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// Today returns now's local calendar day as UTC midnight, comparable with
// ParseDay results.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
