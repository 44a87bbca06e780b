package inpaint

import (
	"errors"
	"image"
	"math/rand"
	"testing"
)

func TestPlanCropTopRightWatermark(t *testing.T) {
	refined, _ := RefineRegion(1000, 800, Rect(900, 0, 100, 100))
	plan, err := PlanCrop(1000, 800, refined, 5)
	if err != nil {
		t.Fatalf("PlanCrop: %v", err)
	}

	if want := image.Rect(935, 0, 1000, 65); plan.Mask != want {
		t.Errorf("mask = %v, want %v", plan.Mask, want)
	}
	if want := image.Rect(740, 0, 1000, 260); plan.Crop != want {
		t.Errorf("crop = %v, want %v", plan.Crop, want)
	}
	if want := image.Rect(195, 0, 260, 65); plan.LocalMask != want {
		t.Errorf("local mask = %v, want %v", plan.LocalMask, want)
	}
}

func TestPlanCropCentersWhenRoomAllows(t *testing.T) {
	plan, err := PlanCrop(1000, 800, Rect(480, 380, 40, 40), 5)
	if err != nil {
		t.Fatalf("PlanCrop: %v", err)
	}
	// mask 50x50 -> side 200 centered on (500,400)
	if want := image.Rect(400, 300, 600, 500); plan.Crop != want {
		t.Fatalf("crop = %v, want %v", plan.Crop, want)
	}
	if want := image.Rect(75, 75, 125, 125); plan.LocalMask != want {
		t.Fatalf("local mask = %v, want %v", plan.LocalMask, want)
	}
}

func TestPlanCropSideClampedToImage(t *testing.T) {
	plan, err := PlanCrop(300, 150, Rect(100, 50, 40, 30), 0)
	if err != nil {
		t.Fatalf("PlanCrop: %v", err)
	}
	if plan.Crop.Dx() != 150 || plan.Crop.Dy() != 150 {
		t.Fatalf("crop = %v, want 150x150", plan.Crop)
	}
	if !plan.Mask.In(plan.Crop) {
		t.Fatalf("mask %v not inside crop %v", plan.Mask, plan.Crop)
	}
}

func TestPlanCropWideMaskStretchesWindow(t *testing.T) {
	plan, err := PlanCrop(1000, 300, Rect(50, 100, 900, 100), 0)
	if err != nil {
		t.Fatalf("PlanCrop: %v", err)
	}
	if plan.Crop.Dx() != 900 || plan.Crop.Dy() != 300 {
		t.Fatalf("crop = %v, want 900x300", plan.Crop)
	}
	if !plan.Mask.In(plan.Crop) {
		t.Fatalf("mask %v not inside crop %v", plan.Mask, plan.Crop)
	}
}

func TestPlanCropDegenerateRegion(t *testing.T) {
	plan, err := PlanCrop(1000, 800, Rect(0, 0, 0, 0), 5)
	if err != nil {
		t.Fatalf("PlanCrop: %v", err)
	}
	if !plan.Mask.Empty() || !plan.LocalMask.Empty() {
		t.Fatalf("mask = %v, want empty", plan.Mask)
	}
	if plan.Crop != image.Rect(0, 0, 200, 200) {
		t.Fatalf("crop = %v, want 200x200 at origin", plan.Crop)
	}
}

func TestPlanCropRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		region        image.Rectangle
		padding       int
	}{
		{"empty image", 0, 800, Rect(10, 10, 20, 20), 5},
		{"negative padding", 1000, 800, Rect(10, 10, 20, 20), -1},
		{"negative origin", 1000, 800, image.Rectangle{Min: image.Pt(-5, 0), Max: image.Pt(10, 10)}, 5},
		{"outside image", 1000, 800, Rect(1200, 10, 20, 20), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlanCrop(tt.width, tt.height, tt.region, tt.padding)
			if !errors.Is(err, ErrInvalidRegion) {
				t.Fatalf("error = %v, want ErrInvalidRegion", err)
			}
		})
	}
}

func TestPlanCropContainment(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 5000; i++ {
		w := 1 + rng.Intn(2000)
		h := 1 + rng.Intn(2000)
		x := rng.Intn(w)
		y := rng.Intn(h)
		rw := 1 + rng.Intn(w-x)
		rh := 1 + rng.Intn(h-y)
		padding := rng.Intn(20)

		region, _ := RefineRegion(w, h, Rect(x, y, rw, rh))
		region = region.Intersect(image.Rect(0, 0, w, h))
		if region.Empty() {
			continue
		}
		plan, err := PlanCrop(w, h, region, padding)
		if err != nil {
			t.Fatalf("PlanCrop(%dx%d, %v, %d): %v", w, h, region, padding, err)
		}

		bounds := image.Rect(0, 0, w, h)
		if !plan.Crop.In(bounds) {
			t.Fatalf("crop %v outside image %v", plan.Crop, bounds)
		}
		if !plan.Mask.In(plan.Crop) {
			t.Fatalf("mask %v outside crop %v", plan.Mask, plan.Crop)
		}
		if plan.LocalMask != plan.Mask.Sub(plan.Crop.Min) {
			t.Fatalf("local mask %v does not match %v - %v", plan.LocalMask, plan.Mask, plan.Crop.Min)
		}

		mw, mh := plan.Mask.Dx(), plan.Mask.Dy()
		if max(mw, mh) > min(w, h) {
			continue
		}
		side := min(max(4*mw, 4*mh, 200), w, h)
		if plan.Crop.Dx() != side || plan.Crop.Dy() != side {
			t.Fatalf("crop %v for mask %v in %dx%d, want side %d", plan.Crop, plan.Mask, w, h, side)
		}
	}
}
