package graphics

// run is a horizontal line of pixels from x1 to x2 inclusive on row y.
type run struct {
	y, x1, x2 int
}

// Startup image: a yellow and a white frame line above and below the
// blue "RETRO 24" lettering.
var (
	yellowRuns = []run{
		{16, 6, 58}, {39, 6, 58},
	}

	whiteRuns = []run{
		{17, 5, 59}, {38, 5, 59},
	}

	blueRuns = []run{
		{18, 4, 60},
		{22, 3, 9}, {22, 12, 17}, {22, 20, 26}, {22, 29, 35}, {22, 40, 42}, {22, 48, 53}, {22, 56, 56}, {22, 61, 61},
		{23, 3, 3}, {23, 9, 9}, {23, 12, 12}, {23, 23, 23}, {23, 29, 29}, {23, 35, 35}, {23, 39, 40}, {23, 42, 43}, {23, 53, 53}, {23, 56, 56}, {23, 61, 61},
		{24, 3, 3}, {24, 9, 9}, {24, 12, 12}, {24, 23, 23}, {24, 29, 29}, {24, 35, 35}, {24, 38, 39}, {24, 43, 44}, {24, 53, 53}, {24, 56, 56}, {24, 61, 61},
		{25, 3, 3}, {25, 9, 9}, {25, 12, 12}, {25, 23, 23}, {25, 29, 29}, {25, 35, 35}, {25, 38, 38}, {25, 44, 44}, {25, 53, 53}, {25, 56, 56}, {25, 61, 61},
		{26, 3, 9}, {26, 12, 12}, {26, 23, 23}, {26, 29, 35}, {26, 38, 38}, {26, 44, 44}, {26, 53, 53}, {26, 56, 56}, {26, 61, 61},
		{27, 3, 5}, {27, 12, 12}, {27, 23, 23}, {27, 29, 31}, {27, 38, 38}, {27, 44, 44}, {27, 53, 53}, {27, 56, 61},
		{28, 3, 3}, {28, 5, 6}, {28, 12, 15}, {28, 23, 23}, {28, 29, 29}, {28, 31, 32}, {28, 38, 38}, {28, 44, 44}, {28, 48, 53}, {28, 61, 61},
		{29, 3, 3}, {29, 6, 7}, {29, 12, 12}, {29, 23, 23}, {29, 29, 29}, {29, 32, 33}, {29, 38, 38}, {29, 44, 44}, {29, 48, 48}, {29, 61, 61},
		{30, 3, 3}, {30, 7, 8}, {30, 12, 12}, {30, 23, 23}, {30, 29, 29}, {30, 33, 34}, {30, 38, 38}, {30, 44, 44}, {30, 48, 48}, {30, 61, 61},
		{31, 3, 3}, {31, 8, 9}, {31, 12, 12}, {31, 23, 23}, {31, 29, 29}, {31, 34, 35}, {31, 38, 39}, {31, 43, 44}, {31, 48, 48}, {31, 61, 61},
		{32, 3, 3}, {32, 9, 9}, {32, 12, 12}, {32, 23, 23}, {32, 29, 29}, {32, 35, 35}, {32, 39, 40}, {32, 42, 43}, {32, 48, 48}, {32, 61, 61},
		{33, 3, 3}, {33, 9, 9}, {33, 12, 17}, {33, 23, 23}, {33, 29, 29}, {33, 35, 35}, {33, 40, 42}, {33, 48, 53}, {33, 61, 61},
		{37, 4, 60},
	}
)

func drawStartScreen(c *Chip) {
	drawRuns(c, yellowRuns, true, true)
	drawRuns(c, whiteRuns, true, false)
	drawRuns(c, blueRuns, false, true)
}

func drawRuns(c *Chip, runs []run, brightness, color bool) {
	for _, r := range runs {
		for x := r.x1; x <= r.x2; x++ {
			// all runs are within the screen
			_ = c.SetPixel(x, r.y, brightness, color)
		}
	}
}
