package todo

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"protask/internal/calendar"
)

func mustDue(t *testing.T, s string) *DueDate {
	t.Helper()
	d, err := ParseDue(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return &d
}

func TestBucket_ShipReleaseScenario(t *testing.T) {
	tasks := []Task{
		{ID: "1", Title: "Ship release", Due: mustDue(t, "2024-03-15T09:00:00")},
		{ID: "2", Title: "No date"},
		{ID: "3", Title: "Other day", Due: mustDue(t, "2024-03-16T09:00:00")},
	}
	got := Bucket(tasks, "2024-03-15")
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected only task 1 in 2024-03-15 bucket, got %+v", got)
	}
	start := calendar.Date(2024, time.January, 1)
	for i := 0; i < 366; i++ {
		key := calendar.Key(start.AddDate(0, 0, i))
		if key == "2024-03-15" {
			continue
		}
		for _, task := range Bucket(tasks, key) {
			if task.ID == "1" {
				t.Fatalf("task 1 unexpectedly in bucket %s", key)
			}
		}
	}
}

func TestBucket_SoundAndCompleteAndStable(t *testing.T) {
	dues := []string{
		"2024-03-15T09:00:00",
		"2024-03-15T23:59:00Z",
		"2024-03-15T00:10:00+09:00",
		"2024-03-14T23:59:59-07:00",
		"2024-03-15",
		"",
		"2024-04-15T09:00",
	}
	var tasks []Task
	for i, d := range dues {
		task := Task{ID: string(rune('a' + i)), Title: "t"}
		if d != "" {
			task.Due = mustDue(t, d)
		}
		tasks = append(tasks, task)
	}
	keys := []string{"2024-03-14", "2024-03-15", "2024-04-15", "2024-01-01"}
	for _, key := range keys {
		bucket := Bucket(tasks, key)
		for _, b := range bucket {
			if k, ok := b.DueKey(); !ok || k != key {
				t.Fatalf("bucket %s contains %s with key %q", key, b.ID, k)
			}
		}
		want := 0
		for _, task := range tasks {
			if k, ok := task.DueKey(); ok && k == key {
				want++
			}
		}
		if len(bucket) != want {
			t.Fatalf("bucket %s: expected %d tasks, got %d", key, want, len(bucket))
		}
		for i := 1; i < len(bucket); i++ {
			if IndexOf(tasks, bucket[i-1].ID) > IndexOf(tasks, bucket[i].ID) {
				t.Fatalf("bucket %s is not in collection order", key)
			}
		}
	}
	if got := len(Bucket(tasks, "2024-03-15")); got != 4 {
		t.Fatalf("expected 4 tasks on 2024-03-15, got %d", got)
	}
}

func TestTaskJSON_AcceptsMongoID(t *testing.T) {
	raw := `{"_id":"65f0","title":"Ship release","completed":true,"dueDate":"2024-03-15T09:00:00.000Z","createdAt":"2024-03-01T10:00:00Z"}`
	var task Task
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if task.ID != "65f0" || !task.Completed || task.Title != "Ship release" {
		t.Fatalf("unexpected task: %+v", task)
	}
	if k, _ := task.DueKey(); k != "2024-03-15" {
		t.Fatalf("expected due key 2024-03-15, got %q", k)
	}
	if task.CreatedAt.IsZero() {
		t.Fatalf("expected createdAt to be decoded")
	}
}

func TestTaskJSON_NullAndEmptyDue(t *testing.T) {
	for _, raw := range []string{
		`{"id":"1","title":"a","completed":false,"dueDate":null}`,
		`{"id":"1","title":"a","completed":false,"dueDate":""}`,
		`{"id":"1","title":"a","completed":false}`,
	} {
		var task Task
		if err := json.Unmarshal([]byte(raw), &task); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if task.Due != nil {
			t.Fatalf("expected no due date for %s, got %v", raw, task.Due)
		}
	}
}

func TestTaskJSON_MalformedDue(t *testing.T) {
	var task Task
	err := json.Unmarshal([]byte(`{"id":"1","title":"a","dueDate":"tomorrow"}`), &task)
	if err == nil {
		t.Fatalf("expected error for malformed due date")
	}
}

func TestTaskJSON_EncodesFloatingDueWithoutZone(t *testing.T) {
	task := Task{Title: "x", Due: mustDue(t, "2024-03-15T09:00")}
	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"dueDate":"2024-03-15T09:00:00"`) {
		t.Fatalf("expected floating dueDate, got %s", data)
	}
	if strings.Contains(string(data), `"id"`) {
		t.Fatalf("expected empty id to be omitted, got %s", data)
	}

	task.Due = nil
	data, _ = json.Marshal(task)
	if !strings.Contains(string(data), `"dueDate":null`) {
		t.Fatalf("expected null dueDate, got %s", data)
	}
}

func TestParseDue_KeepsOffsetFields(t *testing.T) {
	d := mustDue(t, "2024-03-15T23:30:00-08:00")
	if d.Floating {
		t.Fatalf("expected zoned due date")
	}
	if d.Input() != "2024-03-15T23:30" {
		t.Fatalf("expected wall clock preserved, got %q", d.Input())
	}
	if d.String() != "2024-03-15T23:30:00-08:00" {
		t.Fatalf("expected offset preserved, got %q", d.String())
	}
	if _, err := ParseDue("15/03/2024"); err == nil {
		t.Fatalf("expected error for unsupported layout")
	}
	if got, err := ParseOptionalDue("   "); err != nil || got != nil {
		t.Fatalf("expected nil for blank input, got %v %v", got, err)
	}
}

func TestReplaceAndRemove_PreserveOrder(t *testing.T) {
	tasks := []Task{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}, {ID: "c", Title: "C"}}
	replaced := Replace(tasks, Task{ID: "b", Title: "B2", Completed: true})
	if replaced[1].Title != "B2" || !replaced[1].Completed {
		t.Fatalf("expected b replaced in place, got %+v", replaced)
	}
	if tasks[1].Title != "B" {
		t.Fatalf("expected input untouched")
	}
	if same := Replace(tasks, Task{ID: "zz"}); len(same) != 3 || same[0].ID != "a" {
		t.Fatalf("expected unknown id to be a no-op")
	}
	removed := Remove(tasks, "a")
	if len(removed) != 2 || removed[0].ID != "b" || removed[1].ID != "c" {
		t.Fatalf("unexpected remove result: %+v", removed)
	}
	pre := Prepend(tasks, Task{ID: "z"})
	if len(pre) != 4 || pre[0].ID != "z" || pre[1].ID != "a" {
		t.Fatalf("unexpected prepend result: %+v", pre)
	}
}

func TestValidTitle(t *testing.T) {
	if _, err := ValidTitle(" \t\n "); err != ErrEmptyTitle {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if got, err := ValidTitle("  Ship  "); err != nil || got != "Ship" {
		t.Fatalf("expected trimmed title, got %q %v", got, err)
	}
}

func TestDueDate_Relative(t *testing.T) {
	d := mustDue(t, "2024-03-18T09:00")
	now := time.Date(2024, time.March, 15, 9, 0, 0, 0, time.FixedZone("X", 5*60*60))
	if got := d.Relative(now); got != "3 days from now" {
		t.Fatalf("expected 3 days from now, got %q", got)
	}
	past := mustDue(t, "2024-03-14T09:00")
	if got := past.Relative(now); got != "1 day ago" {
		t.Fatalf("expected 1 day ago, got %q", got)
	}
}
