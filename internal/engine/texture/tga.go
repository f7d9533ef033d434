// Package texture decodes images and uploads them as OpenGL textures.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

var errTGATruncated = errors.New("tga: pixel data truncated")

// DecodeTGA decodes uncompressed and RLE true-color TGA images with 24 or 32 bits per pixel.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("tga: header too short (%d bytes)", len(data))
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("tga: color-mapped images not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("tga: unsupported image type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("tga: unsupported bit depth %d", bpp)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("tga: empty image %dx%d", width, height)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, errTGATruncated
	}

	p := &tgaPixels{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		src:         data[offset:],
		bpp:         bpp / 8,
		width:       width,
		height:      height,
		topToBottom: descriptor&0x20 != 0,
	}

	var err error
	if imageType == TGATypeUncompressed {
		err = p.decodeRaw()
	} else {
		err = p.decodeRLE()
	}
	if err != nil {
		return nil, err
	}
	return p.img, nil
}

type tgaPixels struct {
	img         *image.RGBA
	src         []byte
	pos         int
	bpp         int
	width       int
	height      int
	topToBottom bool
}

// next reads one BGR(A) pixel.
func (p *tgaPixels) next() (color.RGBA, error) {
	if p.pos+p.bpp > len(p.src) {
		return color.RGBA{}, errTGATruncated
	}
	s := p.src[p.pos:]
	c := color.RGBA{R: s[2], G: s[1], B: s[0], A: 255}
	if p.bpp == 4 {
		c.A = s[3]
	}
	p.pos += p.bpp
	return c, nil
}

// set stores pixel n in file order; rows are stored bottom-up unless topToBottom.
func (p *tgaPixels) set(n int, c color.RGBA) {
	x, y := n%p.width, n/p.width
	if !p.topToBottom {
		y = p.height - 1 - y
	}
	p.img.SetRGBA(x, y, c)
}

func (p *tgaPixels) decodeRaw() error {
	total := p.width * p.height
	for n := 0; n < total; n++ {
		c, err := p.next()
		if err != nil {
			return err
		}
		p.set(n, c)
	}
	return nil
}

func (p *tgaPixels) decodeRLE() error {
	total := p.width * p.height
	for n := 0; n < total; {
		if p.pos >= len(p.src) {
			return errTGATruncated
		}
		packet := p.src[p.pos]
		p.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// Run-length packet: one pixel repeated
			c, err := p.next()
			if err != nil {
				return err
			}
			for i := 0; i < count && n < total; i++ {
				p.set(n, c)
				n++
			}
			continue
		}

		// Raw packet
		for i := 0; i < count && n < total; i++ {
			c, err := p.next()
			if err != nil {
				return err
			}
			p.set(n, c)
			n++
		}
	}
	return nil
}
