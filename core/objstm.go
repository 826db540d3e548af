package core

import "fmt"

// ObjectStream is a decoded /Type /ObjStm stream. Its header lists N pairs
// of object number and offset; the objects follow from byte First.
type ObjectStream struct {
	data    []byte
	first   int
	numbers []int
	offsets []int
}

// NewObjectStream decodes stream and reads its header.
func NewObjectStream(stream *Stream) (*ObjectStream, error) {
	if t, _ := stream.Dict.GetName("Type"); t != "ObjStm" {
		return nil, fmt.Errorf("stream is not an object stream, got type %q", t)
	}
	n, ok := stream.Dict.GetInt("N")
	if !ok || n < 0 {
		return nil, fmt.Errorf("object stream: invalid /N")
	}
	first, ok := stream.Dict.GetInt("First")
	if !ok || first < 0 {
		return nil, fmt.Errorf("object stream: invalid /First")
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("object stream: %w", err)
	}
	if int(first) > len(data) {
		return nil, fmt.Errorf("object stream: /First %d past end of %d bytes", first, len(data))
	}

	o := &ObjectStream{
		data:    data,
		first:   int(first),
		numbers: make([]int, n),
		offsets: make([]int, n),
	}

	p := NewParser(data[:first])
	for i := 0; i < int(n); i++ {
		if o.numbers[i], err = p.expectInt("object number"); err != nil {
			return nil, fmt.Errorf("object stream header pair %d: %w", i, err)
		}
		if o.offsets[i], err = p.expectInt("offset"); err != nil {
			return nil, fmt.Errorf("object stream header pair %d: %w", i, err)
		}
	}
	return o, nil
}

// N returns the number of objects in the stream.
func (o *ObjectStream) N() int {
	return len(o.numbers)
}

// GetObjectByIndex parses the object at index and reports its number.
func (o *ObjectStream) GetObjectByIndex(index int) (int, Object, error) {
	if index < 0 || index >= len(o.numbers) {
		return 0, nil, fmt.Errorf("object stream index %d out of range [0, %d)", index, len(o.numbers))
	}
	start := o.first + o.offsets[index]
	if start < o.first || start > len(o.data) {
		return 0, nil, fmt.Errorf("object stream offset %d out of range", o.offsets[index])
	}
	obj, err := NewParser(o.data[start:]).ParseObject()
	if err != nil {
		return 0, nil, fmt.Errorf("object %d in object stream: %w", o.numbers[index], err)
	}
	return o.numbers[index], obj, nil
}

// GetObjectByNumber finds and parses the object with the given number.
func (o *ObjectStream) GetObjectByNumber(num int) (Object, error) {
	for i, n := range o.numbers {
		if n == num {
			_, obj, err := o.GetObjectByIndex(i)
			return obj, err
		}
	}
	return nil, fmt.Errorf("object %d not in object stream", num)
}
