package vaspio_test

import (
	"math"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/simstack-go/dftvasp/pkg/infra/vaspio"
)

const sampleOutcar = ` vasp.5.4.4 18Apr17-6-g9f103f2a35 (build Feb 22 2019) complex
   k-points           NKPTS =     10   k-points in BZ     NKDIM =     10   number of bands    NBANDS=      8
   number of dos      NEDOS =    301   number of ions     NIONS =      2
 number of electron      16.0000000 magnetization       2.0000000

 POSITION                                       TOTAL-FORCE (eV/Angst)
 -----------------------------------------------------------------------------------
      0.00000      0.00000      0.00000         0.000000      0.000000      0.100000
      2.00000      2.00000      2.00000         0.000000      0.000000     -0.100000
 -----------------------------------------------------------------------------------

  FREE ENERGIE OF THE ION-ELECTRON SYSTEM (eV)
  ---------------------------------------------------
  free  energy   TOTEN  =       -27.21936851 eV

  energy  without entropy=      -27.21936851  energy(sigma->0) =      -27.21936851

  external pressure =       -1.05 kB  Pullay stress =        2.00 kB

 magnetization (x)

# of ion       s       p       d       tot
------------------------------------------
    1        0.010   0.020   0.030   0.060
    2        0.010   0.020   0.030   0.060
--------------------------------------------------
tot          0.020   0.040   0.060   0.120

 reached required accuracy - stopping structural energy minimisation

                  Total CPU time used (sec):       62.236
                          Elapsed time (sec):       65.841
`

func TestParseOutcar(t *testing.T) {
	path := writeTemp(t, "OUTCAR", sampleOutcar)

	sum, err := vaspio.ParseOutcar(path)
	gt.NoError(t, err)

	gt.Value(t, sum.Converged).Equal(true)
	gt.Value(t, sum.NKpoints).Equal(10)
	gt.Value(t, sum.NIons).Equal(2)
	gt.Number(t, math.Abs(sum.FreeEnergy-(-27.21936851))).Less(1e-9)
	gt.Number(t, math.Abs(sum.EnergySigma0-(-27.21936851))).Less(1e-9)

	gt.Value(t, sum.HasPressure).Equal(true)
	gt.Number(t, math.Abs(sum.ExternalPressure-(-1.05))).Less(1e-9)
	gt.Number(t, math.Abs(sum.PullayStress-2.00)).Less(1e-9)

	gt.Number(t, len(sum.Positions)).Equal(2)
	gt.Value(t, sum.Positions[1]).Equal([3]float64{2, 2, 2})
	gt.Value(t, sum.Forces[0]).Equal([3]float64{0, 0, 0.1})

	gt.Value(t, sum.HasMagnetization).Equal(true)
	gt.Number(t, math.Abs(sum.TotalMagneticMoment-2.0)).Less(1e-9)
	gt.Value(t, sum.MagneticMoments).Equal([]float64{0.06, 0.06})

	gt.Number(t, math.Abs(sum.ElapsedSeconds-65.841)).Less(1e-9)
}

func TestParseOutcar_Unconverged(t *testing.T) {
	// a crashed run leaves a header-only file behind
	path := writeTemp(t, "OUTCAR", ` vasp.5.4.4
   k-points           NKPTS =      1   k-points in BZ     NKDIM =      1   number of bands    NBANDS=      8
`)

	sum, err := vaspio.ParseOutcar(path)
	gt.NoError(t, err)
	gt.Value(t, sum.Converged).Equal(false)
	gt.Value(t, sum.NKpoints).Equal(1)
	gt.Value(t, sum.HasPressure).Equal(false)
	gt.Number(t, len(sum.Positions)).Equal(0)
}

func TestParseOutcar_GluedNumbers(t *testing.T) {
	// overflowing columns glue the sign of the next number to the previous
	// value; the scanner has to re-split them
	path := writeTemp(t, "OUTCAR", ` POSITION                                       TOTAL-FORCE (eV/Angst)
 -----------------------------------------------------------------------------------
      0.00000      0.00000      0.00000       100.000000-200.000000      0.100000
 -----------------------------------------------------------------------------------
`)

	sum, err := vaspio.ParseOutcar(path)
	gt.NoError(t, err)
	gt.Number(t, len(sum.Forces)).Equal(1)
	gt.Value(t, sum.Forces[0]).Equal([3]float64{100, -200, 0.1})
}

func TestParseOutcar_Missing(t *testing.T) {
	_, err := vaspio.ParseOutcar("/nonexistent/OUTCAR")
	gt.Error(t, err)
}
