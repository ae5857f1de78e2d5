package backend

import "testing"

func BenchmarkMemoryProcess(b *testing.B) {
	m := NewMemory(DefaultMemoryConfig())
	if err := m.Open(0); err != nil {
		b.Fatal(err)
	}
	dst := make([]byte, 8)
	src := []byte{1, 2, 3, 4}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Read(0x0560, dst)
		m.Write(0x3000, src)
		if err := m.Process(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkStoreReadAt(b *testing.B) {
	s := NewStore(64 * 1024)
	buf := make([]byte, 8)
	b.SetBytes(8)
	for i := 0; i < b.N; i++ {
		s.ReadAt(buf, 0x0560)
	}
}
