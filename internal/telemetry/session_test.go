package telemetry

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rigidlog/internal/dynamo"
)

var _ = Describe("Session", func() {
	var (
		root string
		opts Options
		a, b *fakeBody
	)

	BeforeEach(func() {
		root = GinkgoT().TempDir()
		opts = DefaultOptions("Cradle")
		opts.RowDir = filepath.Join(root, DefaultRowDir)
		opts.DocDir = filepath.Join(root, DefaultDocDir)
		opts.Logger = quietLogger()

		a = sphere("a", 1, 2, 3)
		b = sphere("b", 0, 0, 0)
	})

	readRows := func(path string) [][]string {
		f, err := os.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()
		r := csv.NewReader(f)
		r.FieldsPerRecord = -1
		records, err := r.ReadAll()
		Expect(err).NotTo(HaveOccurred())
		return records
	}

	Context("over a full run", func() {
		It("writes one row per tick and one frame per tick", func() {
			s := NewSession(opts)
			Expect(s.Register(bodies(a, b))).To(Succeed())

			const ticks = 4
			for i := 0; i < ticks; i++ {
				Expect(s.Tick()).To(Succeed())
				b.pos = b.pos.Add(dynamo.V(0, 0.5, 0))
			}
			Expect(s.Close()).To(Succeed())

			Expect(s.Ticks()).To(Equal(ticks))
			Expect(readRows(s.RowLogPath())).To(HaveLen(1 + ticks))

			doc, err := loadDoc(s.DocumentPath())
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Meta).To(HaveLen(2))
			Expect(doc.Frames).To(HaveLen(ticks))
			Expect(doc.Frames[3]).To(HaveKey("b_bullet3"))
			Expect(doc.Frames[3]["b_bullet3"].Position).To(Equal([3]float64{0, 1.5, 0}))
		})

		It("stores the same quaternion in both formats, reordered", func() {
			half := 0.7071067811865476
			a.rot = dynamo.Quat{W: half, X: 0, Y: 0, Z: half}
			b.rot = dynamo.Quat{W: 0.5, X: 0.5, Y: -0.5, Z: 0.5}

			s := NewSession(opts)
			Expect(s.Register(bodies(a, b))).To(Succeed())
			Expect(s.Tick()).To(Succeed())
			Expect(s.Close()).To(Succeed())

			row := readRows(s.RowLogPath())[1]
			doc, err := loadDoc(s.DocumentPath())
			Expect(err).NotTo(HaveOccurred())

			// segment layout: "", p(3), q(4), v(3), w(3), " "
			stride := 1 + len(RowColumns) + 1
			for i, name := range []string{"a_bullet3", "b_bullet3"} {
				var xyzw [4]float64
				for k := 0; k < 4; k++ {
					v, err := strconv.ParseFloat(row[i*stride+4+k], 64)
					Expect(err).NotTo(HaveOccurred())
					xyzw[k] = v
				}
				wxyz := doc.Frames[0][name].Quaternion
				Expect(wxyz[0]).To(BeNumerically("~", xyzw[3], 1e-12))
				Expect(wxyz[1]).To(BeNumerically("~", xyzw[0], 1e-12))
				Expect(wxyz[2]).To(BeNumerically("~", xyzw[1], 1e-12))
				Expect(wxyz[3]).To(BeNumerically("~", xyzw[2], 1e-12))
			}
		})
	})

	Context("lifecycle", func() {
		It("gets a distinct run id", func() {
			s1, s2 := NewSession(opts), NewSession(opts)
			Expect(s1.ID()).To(HavePrefix("run_"))
			Expect(s1.ID()).To(HaveLen(12))
			Expect(s1.ID()).NotTo(Equal(s2.ID()))
		})

		It("rejects ticks before registration", func() {
			s := NewSession(opts)
			Expect(s.Tick()).To(MatchError(ErrNotRegistered))
			Expect(s.Close()).To(Succeed())
		})

		It("closes exactly once", func() {
			s := NewSession(opts)
			Expect(s.Register(bodies(a))).To(Succeed())
			Expect(s.Tick()).To(Succeed())
			Expect(s.Close()).To(Succeed())

			before, err := os.ReadFile(s.RowLogPath())
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Close()).To(Succeed())
			Expect(os.ReadFile(s.RowLogPath())).To(Equal(before))
			Expect(s.Tick()).To(MatchError(ErrClosed))
		})

		It("keeps ticking when the row log cannot be created", func() {
			Expect(os.WriteFile(opts.RowDir, []byte("x"), 0o644)).To(Succeed())

			s := NewSession(opts)
			Expect(s.Register(bodies(a))).To(Succeed())
			Expect(s.Tick()).To(Succeed())
			Expect(s.Tick()).To(Succeed())
			Expect(s.Close()).To(Succeed())

			Expect(s.RowFailures()).To(Equal(2))
			doc, err := loadDoc(s.DocumentPath())
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Frames).To(HaveLen(2))
		})
	})

	Describe("Run", func() {
		setupBodies := func(bs ...*fakeBody) func(context.Context) ([]dynamo.Body, error) {
			return func(context.Context) ([]dynamo.Body, error) { return bodies(bs...), nil }
		}

		It("flushes the document after the loop returns", func() {
			err := Run(context.Background(), opts, setupBodies(a, b), func(ctx context.Context, s *Session) error {
				for i := 0; i < 3; i++ {
					if err := s.Tick(); err != nil {
						return err
					}
				}
				return nil
			})
			Expect(err).NotTo(HaveOccurred())

			doc, err := loadDoc(filepath.Join(opts.DocDir, "Scene.json"))
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Frames).To(HaveLen(3))
		})

		It("flushes the document when the loop fails", func() {
			boom := errors.New("solver exploded")
			err := Run(context.Background(), opts, setupBodies(a), func(ctx context.Context, s *Session) error {
				Expect(s.Tick()).To(Succeed())
				return boom
			})
			Expect(err).To(MatchError(boom))

			doc, err := loadDoc(filepath.Join(opts.DocDir, "Scene.json"))
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Frames).To(HaveLen(1))
		})

		It("flushes the document when the loop panics", func() {
			Expect(func() {
				_ = Run(context.Background(), opts, setupBodies(a), func(ctx context.Context, s *Session) error {
					Expect(s.Tick()).To(Succeed())
					panic("scene bug")
				})
			}).To(PanicWith("scene bug"))

			doc, err := loadDoc(filepath.Join(opts.DocDir, "Scene.json"))
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Frames).To(HaveLen(1))
		})

		It("writes empty metadata when setup fails", func() {
			err := Run(context.Background(), opts, func(context.Context) ([]dynamo.Body, error) {
				return nil, errors.New("bad placement")
			}, func(ctx context.Context, s *Session) error {
				Fail("loop must not run")
				return nil
			})
			Expect(err).To(MatchError(ContainSubstring("bad placement")))

			doc, err := loadDoc(filepath.Join(opts.DocDir, "Scene.json"))
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Meta).To(BeEmpty())
			Expect(doc.Frames).To(BeEmpty())
			Expect(filepath.Join(opts.RowDir, "Cradle_0.csv")).NotTo(BeAnExistingFile())
		})
	})
})
