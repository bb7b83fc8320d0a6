package control

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/linetrace/internal/dynamo"
	"github.com/san-kum/linetrace/internal/sensor"
)

const tol = 1e-12

var _ = Describe("LineFollower", func() {
	var (
		prs sensor.Array
		lf  *LineFollower
	)

	BeforeEach(func() {
		prs = sensor.NewArray(sensor.DefaultSpacing, sensor.DefaultForward)
		lf = NewLineFollower(prs)
	})

	compute := func(vals ...float64) (float64, float64) {
		prs.Set(vals...)
		left, right, err := lf.Compute()
		Expect(err).NotTo(HaveOccurred())
		return left, right
	}

	DescribeTable("reference readings",
		func(x0, x1, x2, x3, wantLeft, wantRight float64) {
			left, right := compute(x0, x1, x2, x3)
			Expect(left).To(BeNumerically("~", wantLeft, tol))
			Expect(right).To(BeNumerically("~", wantRight, tol))
		},
		Entry("all white drives straight slowly", 0.0, 0.0, 0.0, 0.0, 0.1, 0.1),
		Entry("all black", 1.0, 1.0, 1.0, 1.0, 0.3, 0.3),
		Entry("line under far-left turns left", 1.0, 0.0, 0.0, 0.0, -0.3, 0.5),
		Entry("line under far-right turns right", 0.0, 0.0, 0.0, 1.0, 0.5, -0.3),
		Entry("line under left", 0.0, 1.0, 0.0, 0.0, 0.1, 0.3),
		Entry("line under right", 0.0, 0.0, 1.0, 0.0, 0.3, 0.1),
		Entry("centred on the inner pair", 0.0, 1.0, 1.0, 0.0, 0.3, 0.3),
	)

	It("mirrors far-left and far-right", func() {
		l1, r1 := compute(1, 0, 0, 0)
		l2, r2 := compute(0, 0, 0, 1)
		Expect(l1).To(BeNumerically("~", r2, tol))
		Expect(r1).To(BeNumerically("~", l2, tol))
	})

	It("saturates large readings", func() {
		left, right := compute(10, 0, 0, 0)
		Expect(left).To(Equal(-1.0))
		Expect(right).To(Equal(1.0))

		left, right = compute(0, 0, 0, 10)
		Expect(left).To(Equal(1.0))
		Expect(right).To(Equal(-1.0))
	})

	It("clamps infinite readings to the bounds", func() {
		left, right := compute(math.Inf(1), 0, 0, 0)
		Expect(left).To(Equal(-1.0))
		Expect(right).To(Equal(1.0))

		left, right = compute(math.Inf(-1), 0, 0, 0)
		Expect(left).To(Equal(1.0))
		Expect(right).To(Equal(-1.0))
	})

	It("keeps every output inside [-1,1]", func() {
		samples := []float64{
			-1e9, -3, -1, -0.5, 0, 0.25, 0.5, 1, 2, 1e9,
			math.Inf(1), math.Inf(-1), math.NaN(),
		}
		for _, a := range samples {
			for _, b := range samples {
				left, right := compute(a, b, b, a)
				Expect(left).To(BeNumerically(">=", -1))
				Expect(left).To(BeNumerically("<=", 1))
				Expect(right).To(BeNumerically(">=", -1))
				Expect(right).To(BeNumerically("<=", 1))

				left, right = compute(a, a, b, b)
				Expect(left).To(BeNumerically(">=", -1))
				Expect(left).To(BeNumerically("<=", 1))
				Expect(right).To(BeNumerically(">=", -1))
				Expect(right).To(BeNumerically("<=", 1))
			}
		}
	})

	It("returns the same output for unchanged readings", func() {
		prs.Set(1, 1, 0, 0)
		l1, r1, err := lf.Compute()
		Expect(err).NotTo(HaveOccurred())
		l2, r2, err := lf.Compute()
		Expect(err).NotTo(HaveOccurred())
		Expect(l2).To(Equal(l1))
		Expect(r2).To(Equal(r1))
	})

	It("reads the array at call time", func() {
		left, _ := compute(0, 0, 0, 0)
		Expect(left).To(BeNumerically("~", 0.1, tol))

		prs[0].Value = 1
		left, right, err := lf.Compute()
		Expect(err).NotTo(HaveOccurred())
		Expect(left).To(BeNumerically("~", -0.3, tol))
		Expect(right).To(BeNumerically("~", 0.5, tol))
	})

	Context("binding", func() {
		It("exposes the bound array", func() {
			Expect(lf.Photorefs()).To(HaveLen(sensor.Count))
			Expect(lf.Photorefs()[0]).To(BeIdenticalTo(prs[0]))
		})

		It("uses a rebound array on the next call", func() {
			other := sensor.NewArray(sensor.DefaultSpacing, sensor.DefaultForward)
			other.Set(0, 0, 0, 1)
			prs.Set(1, 0, 0, 0)

			lf.SetPhotorefs(other)
			left, right, err := lf.Compute()
			Expect(err).NotTo(HaveOccurred())
			Expect(left).To(BeNumerically("~", 0.5, tol))
			Expect(right).To(BeNumerically("~", -0.3, tol))
		})

		It("fails when nothing is bound", func() {
			lf = NewLineFollower(nil)
			_, _, err := lf.Compute()
			Expect(err).To(MatchError(ErrInvalidInput))
		})

		It("fails on a three-sensor array", func() {
			lf.SetPhotorefs(prs[:3])
			left, right, err := lf.Compute()
			Expect(err).To(MatchError(ErrInvalidInput))
			Expect(left).To(BeZero())
			Expect(right).To(BeZero())
		})

		It("fails on a five-sensor array", func() {
			lf.SetPhotorefs(append(sensor.Array{{}}, prs...))
			_, _, err := lf.Compute()
			Expect(err).To(MatchError(ErrInvalidInput))
		})

		It("fails on a nil photoreflector", func() {
			lf.SetPhotorefs(sensor.Array{prs[0], nil, prs[2], prs[3]})
			_, _, err := lf.Compute()
			Expect(err).To(MatchError(ErrInvalidInput))
		})
	})

	Context("as a simulation controller", func() {
		It("returns a two-element control", func() {
			prs.Set(1, 0, 0, 0)
			u, err := lf.Command(dynamo.State{0, 0, 0, 0, 0}, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(u).To(HaveLen(2))
			Expect(u[0]).To(BeNumerically("~", -0.3, tol))
			Expect(u[1]).To(BeNumerically("~", 0.5, tol))
		})

		It("propagates binding errors", func() {
			lf.SetPhotorefs(nil)
			_, err := lf.Command(nil, 0)
			Expect(err).To(MatchError(ErrInvalidInput))
		})
	})

	Context("gains", func() {
		It("reports the reference gains", func() {
			Expect(lf.GetParams()).To(Equal(map[string]float64{"outer": 0.4, "inner": 0.2, "bias": 0.1}))
		})

		It("retunes symmetrically", func() {
			Expect(lf.SetParam("bias", 0.2)).To(Succeed())
			left, right := compute(0, 0, 0, 0)
			Expect(left).To(BeNumerically("~", 0.2, tol))
			Expect(right).To(BeNumerically("~", 0.2, tol))
		})

		It("rejects unknown gains", func() {
			Expect(lf.SetParam("gain", 1)).To(MatchError(dynamo.ErrUnknownParam))
		})

		It("accepts a custom matrix", func() {
			w, b := SymmetricGains(1, 0.5, 0)
			lf = NewLineFollowerWithGains(w, b, prs)
			left, right := compute(1, 0, 0, 0)
			Expect(left).To(Equal(-1.0))
			Expect(right).To(Equal(1.0))
		})
	})
})

var _ = Describe("Clamp", func() {
	DescribeTable("saturation",
		func(in, want float64) {
			Expect(Clamp(in)).To(Equal(want))
		},
		Entry("inside", 0.5, 0.5),
		Entry("upper bound", 1.0, 1.0),
		Entry("lower bound", -1.0, -1.0),
		Entry("above", 1.5, 1.0),
		Entry("below", -7.0, -1.0),
		Entry("+inf", math.Inf(1), 1.0),
		Entry("-inf", math.Inf(-1), -1.0),
		Entry("nan", math.NaN(), 1.0),
	)
})
