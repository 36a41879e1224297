// pkg/builder/release.go
package builder

import (
	"archive/tar"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"
)

// InstallFromRelease downloads a prebuilt driver release tarball
// (.tar.xz) and installs the binary to the stable path, skipping the
// source build entirely. Returns the installed artifact path.
func (b *Builder) InstallFromRelease(url string) (string, error) {
	b.Printer.Infof("downloading driver release from %s", url)
	if b.DryRun {
		return b.ArtifactPath(), nil
	}

	resp, err := http.Get(url)
	if err != nil {
		return "", fmt.Errorf("%w: downloading release: %v", ErrBuildFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: downloading release: HTTP %d", ErrBuildFailed, resp.StatusCode)
	}

	path, err := b.extractBinary(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBuildFailed, err)
	}
	b.Printer.Okf("driver installed at %s", path)
	return path, nil
}

// extractBinary reads a .tar.xz stream and writes the entry matching
// BinaryName to the install path. Any other entries are ignored.
func (b *Builder) extractBinary(r io.Reader) (string, error) {
	xzr, err := xz.NewReader(r)
	if err != nil {
		return "", fmt.Errorf("xz init: %w", err)
	}

	tr := tar.NewReader(xzr)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if header.Typeflag != tar.TypeReg || filepath.Base(header.Name) != b.BinaryName {
			continue
		}

		if err := os.MkdirAll(b.InstallDir, 0o755); err != nil {
			return "", err
		}
		dest := b.ArtifactPath()
		out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o755)
		if err != nil {
			return "", err
		}
		if _, err := io.Copy(out, tr); err != nil {
			out.Close()
			return "", err
		}
		out.Close()
		return dest, nil
	}

	return "", fmt.Errorf("release archive has no %s binary", b.BinaryName)
}
