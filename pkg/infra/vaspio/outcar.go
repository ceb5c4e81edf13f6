package vaspio

import (
	"bufio"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/simstack-go/dftvasp/pkg/domain/model"
)

// gluedNumbers matches a digit glued to the minus sign of the next number,
// which happens in OUTCAR columns when a value overflows its field width.
var gluedNumbers = regexp.MustCompile(`([0-9])-([0-9])`)

var floatPattern = regexp.MustCompile(`[+-]?\d+\.\d+`)

// splitNumericLine splits a line into fields after repairing glued numeric
// columns.
func splitNumericLine(line string) []string {
	return strings.Fields(gluedNumbers.ReplaceAllString(line, "$1 -$2"))
}

// ParseOutcar scans an OUTCAR file for the properties the results stage
// reports. The file is scraped line by line; for values repeated every ionic
// step the last occurrence wins. Absent values simply stay at their zero
// value, matching how much of the file a crashed run leaves behind.
func ParseOutcar(path string) (*model.OutcarSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open OUTCAR", goerr.V("path", path))
	}
	defer f.Close()

	sum := &model.OutcarSummary{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.Contains(line, "reached required accuracy"):
			sum.Converged = true

		case strings.Contains(line, "NKPTS ="):
			if v, ok := intAfter(line, "NKPTS"); ok {
				sum.NKpoints = v
			}

		case strings.Contains(line, "NIONS ="):
			if v, ok := intAfter(line, "NIONS"); ok {
				sum.NIons = v
			}

		case strings.Contains(line, "free  energy   TOTEN"):
			if v, ok := floatAfterEq(line); ok {
				sum.FreeEnergy = v
			}

		case strings.Contains(line, "energy(sigma->0)"):
			fields := splitNumericLine(line)
			if len(fields) > 0 {
				if v, err := strconv.ParseFloat(fields[len(fields)-1], 64); err == nil {
					sum.EnergySigma0 = v
				}
			}

		case strings.Contains(line, "external pressure"):
			// "external pressure = X kB  Pullay stress = Y kB"
			nums := floatPattern.FindAllString(gluedNumbers.ReplaceAllString(line, "$1 -$2"), -1)
			if len(nums) >= 2 {
				sum.ExternalPressure, _ = strconv.ParseFloat(nums[0], 64)
				sum.PullayStress, _ = strconv.ParseFloat(nums[1], 64)
				sum.HasPressure = true
			}

		case strings.Contains(line, "number of electron") && strings.Contains(line, "magnetization"):
			fields := splitNumericLine(line)
			if len(fields) > 0 {
				if v, err := strconv.ParseFloat(fields[len(fields)-1], 64); err == nil {
					sum.TotalMagneticMoment = v
					sum.HasMagnetization = true
				}
			}

		case strings.Contains(line, "TOTAL-FORCE"):
			positions, forces, err := readForceBlock(sc)
			if err != nil {
				return nil, goerr.Wrap(err, "bad TOTAL-FORCE block", goerr.V("path", path))
			}
			sum.Positions, sum.Forces = positions, forces

		case strings.Contains(line, "magnetization (x)"):
			if moments, ok := readMagnetizationBlock(sc); ok {
				sum.MagneticMoments = moments
				sum.HasMagnetization = true
			}

		case strings.Contains(line, "Elapsed time (sec):"):
			fields := strings.Fields(line)
			if len(fields) > 0 {
				if v, err := strconv.ParseFloat(fields[len(fields)-1], 64); err == nil {
					sum.ElapsedSeconds = v
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to scan OUTCAR", goerr.V("path", path))
	}

	return sum, nil
}

// readForceBlock consumes the dashed ruler after a TOTAL-FORCE header and
// the position/force rows up to the closing ruler.
func readForceBlock(sc *bufio.Scanner) (positions, forces [][3]float64, err error) {
	if !sc.Scan() {
		return nil, nil, goerr.New("unexpected end of file after TOTAL-FORCE header")
	}
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "---") {
			return positions, forces, nil
		}
		fields := splitNumericLine(line)
		if len(fields) < 6 {
			return nil, nil, goerr.New("force row has fewer than six columns", goerr.V("line", line))
		}
		var row [6]float64
		for i := 0; i < 6; i++ {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, nil, goerr.Wrap(err, "bad force value", goerr.V("value", fields[i]))
			}
			row[i] = v
		}
		positions = append(positions, [3]float64{row[0], row[1], row[2]})
		forces = append(forces, [3]float64{row[3], row[4], row[5]})
	}
	return nil, nil, goerr.New("unterminated TOTAL-FORCE block")
}

// readMagnetizationBlock reads the per-ion moments of a "magnetization (x)"
// table. The table ends with a ruler followed by a "tot" summary row.
func readMagnetizationBlock(sc *bufio.Scanner) ([]float64, bool) {
	// seek the "# of ion" header; give up quickly if this occurrence of the
	// marker is not followed by a table
	headerSeen := false
	for i := 0; i < 4 && sc.Scan(); i++ {
		if strings.Contains(sc.Text(), "# of ion") {
			headerSeen = true
			break
		}
	}
	if !headerSeen || !sc.Scan() { // ruler under the header
		return nil, false
	}

	var moments []float64
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "---") {
			return moments, len(moments) > 0
		}
		fields := splitNumericLine(line)
		if len(fields) < 2 {
			return nil, false
		}
		v, err := strconv.ParseFloat(fields[len(fields)-1], 64)
		if err != nil {
			return nil, false
		}
		moments = append(moments, v)
	}
	return nil, false
}

// intAfter returns the integer following "<tag> =" in a line
func intAfter(line, tag string) (int, bool) {
	fields := strings.Fields(line)
	for i, f := range fields {
		if f == tag && i+2 < len(fields) && fields[i+1] == "=" {
			v, err := strconv.Atoi(fields[i+2])
			if err != nil {
				return 0, false
			}
			return v, true
		}
	}
	return 0, false
}

// floatAfterEq returns the first float following an "=" in a line
func floatAfterEq(line string) (float64, bool) {
	fields := splitNumericLine(line)
	for i, f := range fields {
		if f == "=" && i+1 < len(fields) {
			v, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				return 0, false
			}
			return v, true
		}
	}
	return 0, false
}
