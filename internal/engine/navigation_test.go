package engine

import (
	"context"
	"deskmate-server/internal/domain"
	"deskmate-server/internal/spatial"
	"errors"
	"testing"
)

// fakeStore отдает фиксированный снапшот.
type fakeStore struct {
	snap Snapshot
	err  error
}

func (f *fakeStore) Snapshot(ctx context.Context) (Snapshot, error) {
	return f.snap, f.err
}

// testConfig - сетка 10x10, клетки по 30px.
func testConfig() Config {
	cfg := NewConfig()
	cfg.Grid.Width, cfg.Grid.Height = 10, 10
	cfg.Room.Width, cfg.Room.Height = 300, 300
	return cfg
}

func newTestService(t *testing.T, snap Snapshot) (*NavigationService, *fakeStore) {
	t.Helper()
	store := &fakeStore{snap: snap}
	svc, err := NewNavigationService(testConfig(), store)
	if err != nil {
		t.Fatalf("NewNavigationService: %v", err)
	}
	return svc, store
}

func solid(id string, x, y, w, h int) domain.RoomObject {
	return domain.RoomObject{ID: id, Name: id, Pos: domain.Cell{X: x, Y: y}, Size: domain.Footprint{Width: w, Height: h}, Solid: true}
}

func TestNavigate(t *testing.T) {
	validate := NavigateOptions{ValidatePath: true}

	enclosure := []domain.RoomObject{
		solid("shelf", 7, 7, 3, 1),
		solid("cabinet", 7, 8, 1, 2),
	}

	tests := []struct {
		name        string
		snap        Snapshot
		target      domain.Cell
		opts        NavigateOptions
		wantSuccess bool
		wantReason  FailureReason
		wantLen     int
		wantFacing  domain.Facing
	}{
		{
			name:        "Straight right",
			snap:        Snapshot{Agent: domain.Cell{X: 0, Y: 0}},
			target:      domain.Cell{X: 3, Y: 0},
			opts:        validate,
			wantSuccess: true, wantLen: 4, wantFacing: domain.FacingRight,
		},
		{
			name:        "Straight up",
			snap:        Snapshot{Agent: domain.Cell{X: 2, Y: 5}},
			target:      domain.Cell{X: 2, Y: 1},
			opts:        validate,
			wantSuccess: true, wantLen: 5, wantFacing: domain.FacingUp,
		},
		{
			name:       "Goal blocked",
			snap:       Snapshot{Agent: domain.Cell{X: 0, Y: 0}, Objects: []domain.RoomObject{solid("desk", 5, 5, 2, 2)}},
			target:     domain.Cell{X: 6, Y: 6},
			opts:       validate,
			wantReason: ReasonGoalBlocked, wantFacing: domain.FacingDown,
		},
		{
			name:       "Enclosed goal",
			snap:       Snapshot{Agent: domain.Cell{X: 0, Y: 0}, Objects: enclosure},
			target:     domain.Cell{X: 8, Y: 8},
			opts:       validate,
			wantReason: ReasonNoPath, wantFacing: domain.FacingDown,
		},
		{
			name:       "Out of bounds",
			snap:       Snapshot{Agent: domain.Cell{X: 0, Y: 0}},
			target:     domain.Cell{X: 20, Y: 0},
			opts:       validate,
			wantReason: ReasonOutOfBounds, wantFacing: domain.FacingDown,
		},
		{
			name:        "Already there keeps facing",
			snap:        Snapshot{Agent: domain.Cell{X: 4, Y: 4}, Facing: domain.FacingLeft},
			target:      domain.Cell{X: 4, Y: 4},
			opts:        validate,
			wantSuccess: true, wantLen: 1, wantFacing: domain.FacingLeft,
		},
		{
			name: "Rug does not block",
			snap: Snapshot{Agent: domain.Cell{X: 0, Y: 0}, Objects: []domain.RoomObject{
				{ID: "rug", Pos: domain.Cell{X: 0, Y: 1}, Size: domain.Footprint{Width: 10, Height: 3}},
			}},
			target:      domain.Cell{X: 0, Y: 3},
			opts:        validate,
			wantSuccess: true, wantLen: 4, wantFacing: domain.FacingDown,
		},
		{
			name:        "Unvalidated move skips search",
			snap:        Snapshot{Agent: domain.Cell{X: 0, Y: 0}, Objects: []domain.RoomObject{solid("desk", 5, 5, 2, 2)}},
			target:      domain.Cell{X: 6, Y: 1},
			opts:        NavigateOptions{ValidatePath: false},
			wantSuccess: true, wantLen: 2, wantFacing: domain.FacingRight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, tt.snap)
			res, err := svc.Navigate(context.Background(), tt.target, tt.opts)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if res.Success != tt.wantSuccess || res.Reason != tt.wantReason {
				t.Fatalf("Got success=%v reason=%q, want success=%v reason=%q", res.Success, res.Reason, tt.wantSuccess, tt.wantReason)
			}
			if len(res.Path) != tt.wantLen {
				t.Errorf("len(path) = %d, want %d (%v)", len(res.Path), tt.wantLen, res.Path)
			}
			if res.Facing != tt.wantFacing {
				t.Errorf("facing = %s, want %s", res.Facing, tt.wantFacing)
			}
			if res.Current != tt.snap.Agent || res.Target != tt.target {
				t.Errorf("current/target = %v/%v, want %v/%v", res.Current, res.Target, tt.snap.Agent, tt.target)
			}
			if res.Success && (res.Path[0] != tt.snap.Agent || res.Destination() != tt.target) {
				t.Errorf("path endpoints %v..%v", res.Path[0], res.Destination())
			}
		})
	}
}

func TestNavigateStoreError(t *testing.T) {
	svc, store := newTestService(t, Snapshot{})
	boom := errors.New("boom")
	store.err = boom

	if _, err := svc.Navigate(context.Background(), domain.Cell{X: 1, Y: 1}, NavigateOptions{ValidatePath: true}); !errors.Is(err, boom) {
		t.Errorf("Expected wrapped store error, got %v", err)
	}
}

func TestNavigateInvalidFootprint(t *testing.T) {
	svc, _ := newTestService(t, Snapshot{Footprint: domain.Footprint{Width: -1, Height: 1}})
	if _, err := svc.Navigate(context.Background(), domain.Cell{X: 1, Y: 1}, NavigateOptions{ValidatePath: true}); !errors.Is(err, domain.ErrInvalidFootprint) {
		t.Errorf("Expected ErrInvalidFootprint, got %v", err)
	}
}

func TestApproach(t *testing.T) {
	t.Run("Interact from the nearest side", func(t *testing.T) {
		svc, _ := newTestService(t, Snapshot{
			Agent:   domain.Cell{X: 0, Y: 5},
			Objects: []domain.RoomObject{solid("desk", 4, 4, 2, 2)},
		})
		res, err := svc.Approach(context.Background(), "desk", ApproachInteract)
		if err != nil {
			t.Fatal(err)
		}
		if !res.Success {
			t.Fatalf("Expected success, got %q", res.Reason)
		}
		if res.Destination() != (domain.Cell{X: 3, Y: 5}) || len(res.Path) != 4 {
			t.Errorf("Unexpected path %v", res.Path)
		}
		if res.Facing != domain.FacingRight || res.ObjectID != "desk" {
			t.Errorf("facing=%s object=%s", res.Facing, res.ObjectID)
		}
	})

	t.Run("Sit in front of the couch", func(t *testing.T) {
		svc, _ := newTestService(t, Snapshot{
			Agent:   domain.Cell{X: 0, Y: 0},
			Objects: []domain.RoomObject{solid("couch", 4, 2, 3, 1)},
		})
		res, err := svc.Approach(context.Background(), "couch", ApproachSit)
		if err != nil {
			t.Fatal(err)
		}
		if !res.Success || res.Destination() != (domain.Cell{X: 4, Y: 3}) {
			t.Fatalf("Expected to stand at (4,3), got %+v", res)
		}
		if res.Facing != domain.FacingUp {
			t.Errorf("facing = %s, want up", res.Facing)
		}
	})

	t.Run("Unknown object", func(t *testing.T) {
		svc, _ := newTestService(t, Snapshot{Agent: domain.Cell{X: 1, Y: 1}})
		res, err := svc.Approach(context.Background(), "piano", ApproachInteract)
		if err != nil {
			t.Fatal(err)
		}
		if res.Success || res.Reason != ReasonUnknownObject {
			t.Errorf("Expected unknown_object, got %+v", res)
		}
	})

	t.Run("Boxed in object", func(t *testing.T) {
		svc, _ := newTestService(t, Snapshot{
			Agent: domain.Cell{X: 5, Y: 5},
			Objects: []domain.RoomObject{
				solid("lamp", 0, 0, 1, 1),
				solid("shelf", 1, 0, 1, 1),
				solid("bin", 0, 1, 1, 1),
			},
		})
		res, err := svc.Approach(context.Background(), "lamp", ApproachInteract)
		if err != nil {
			t.Fatal(err)
		}
		if res.Success || res.Reason != ReasonNoPath {
			t.Errorf("Expected no_path, got %+v", res)
		}
	})
}

func TestReachable(t *testing.T) {
	svc, _ := newTestService(t, Snapshot{
		Agent:   domain.Cell{X: 0, Y: 0},
		Objects: []domain.RoomObject{solid("wall", 3, 0, 1, 10)},
	})

	cells, err := svc.Reachable(context.Background(), -1)
	if err != nil {
		t.Fatal(err)
	}
	if len(cells) != 30 {
		t.Errorf("Expected 30 reachable cells, got %d", len(cells))
	}

	cells, err = svc.Reachable(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	want := []domain.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	if len(cells) != len(want) {
		t.Fatalf("Expected %v, got %v", want, cells)
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Errorf("cells[%d] = %v, want %v", i, cells[i], want[i])
		}
	}
}

func TestNearestFree(t *testing.T) {
	svc, _ := newTestService(t, Snapshot{
		Objects: []domain.RoomObject{solid("desk", 2, 2, 2, 2)},
	})

	pos, cell, err := svc.NearestFree(context.Background(), spatial.Position{X: 90, Y: 90})
	if err != nil {
		t.Fatal(err)
	}
	if pos != (spatial.Position{X: 120, Y: 90}) {
		t.Errorf("pos = %v, want (120,90)", pos)
	}
	if cell != (domain.Cell{X: 4, Y: 3}) {
		t.Errorf("cell = %v, want (4,3)", cell)
	}

	pos, _, err = svc.NearestFree(context.Background(), spatial.Position{X: 15, Y: 15})
	if err != nil {
		t.Fatal(err)
	}
	if pos != (spatial.Position{X: 15, Y: 15}) {
		t.Errorf("Free target moved to %v", pos)
	}
}

func TestSnapshotScopedQueries(t *testing.T) {
	svc, store := newTestService(t, Snapshot{Agent: domain.Cell{X: 0, Y: 0}})
	held, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// Хранилище ушло вперед, запросы по удержанному снапшоту этого не видят.
	store.snap = Snapshot{Agent: domain.Cell{X: 9, Y: 9}}

	cells, err := svc.ReachableWith(held, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(cells) != 3 || cells[0] != (domain.Cell{X: 0, Y: 0}) {
		t.Errorf("ReachableWith = %v, want cells around the origin", cells)
	}

	res, err := svc.NavigateWith(held, domain.Cell{X: 2, Y: 0}, NavigateOptions{ValidatePath: true})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success || res.Current != (domain.Cell{X: 0, Y: 0}) || len(res.Path) != 3 {
		t.Errorf("NavigateWith = %+v", res)
	}
}
