package gtf

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inodb/vibe-chunk/internal/interval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGTF = `##description: Test GTF
chr12	HAVANA	gene	25205246	25250929	.	-	.	gene_id "ENSG00000133703"; gene_type "protein_coding"; gene_name "KRAS";
chr12	HAVANA	transcript	25205246	25250929	.	-	.	gene_id "ENSG00000133703"; transcript_id "ENST00000311936"; gene_name "KRAS";
chr12	HAVANA	exon	25250751	25250929	.	-	.	gene_id "ENSG00000133703"; transcript_id "ENST00000311936"; exon_number "1";

chrM	ENSEMBL	gene	3307	4262	.	+	.	gene_id "ENSG00000198888"; gene_name "MT-ND1";
`

func TestParseAttributes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[string]string
	}{
		{
			name:  "gtf attributes",
			input: `gene_id "ENSG00000133703"; transcript_id "ENST00000311936"; gene_name "KRAS";`,
			expected: map[string]string{
				"gene_id":       "ENSG00000133703",
				"transcript_id": "ENST00000311936",
				"gene_name":     "KRAS",
			},
		},
		{
			name:  "gff3 attributes",
			input: `ID=gene:ENSG00000133703;Name=KRAS`,
			expected: map[string]string{
				"ID":   "gene:ENSG00000133703",
				"Name": "KRAS",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseAttributes(tt.input)
			for key, want := range tt.expected {
				assert.Equal(t, want, result[key], "parseAttributes()[%q]", key)
			}
		})
	}
}

func TestReadFrom(t *testing.T) {
	records, err := ReadFrom(strings.NewReader(testGTF))
	require.NoError(t, err)
	require.Len(t, records, 4)

	kras := records[0]
	assert.Equal(t, "chr12", kras.Chrom)
	assert.Equal(t, "gene", kras.Feature)
	assert.Equal(t, int64(25205246), kras.Start)
	assert.Equal(t, int64(25250929), kras.End)
	assert.Equal(t, "-", kras.Strand)
	assert.Equal(t, "KRAS", kras.Attr("gene_name"))
	assert.Equal(t, int64(25250929-25205246+1), kras.Len())
}

func TestReadFrom_Malformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"too few fields", "chr1\tsrc\tgene\t100\t200"},
		{"bad start", "chr1\tsrc\tgene\tabc\t200\t.\t+\t.\tx"},
		{"start after end", "chr1\tsrc\tgene\t300\t200\t.\t+\t.\tx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFrom(strings.NewReader(tt.line + "\n"))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
			assert.Contains(t, err.Error(), "line 1")
		})
	}
}

func TestWriter_RoundTrip(t *testing.T) {
	records, err := ReadFrom(strings.NewReader(testGTF))
	require.NoError(t, err)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteAll(records))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "chrM\tENSEMBL\tgene\t3307\t4262\t.\t+\t.\tgene_id \"ENSG00000198888\"; gene_name \"MT-ND1\";", lines[3])

	again, err := ReadFrom(&buf)
	require.NoError(t, err)
	assert.Equal(t, records, again)
}

func TestRead_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annot.gtf")
	require.NoError(t, os.WriteFile(path, []byte(testGTF), 0644))

	records, err := Read(path)
	require.NoError(t, err)
	assert.Len(t, records, 4)

	_, err = Read(filepath.Join(t.TempDir(), "missing.gtf"))
	assert.Error(t, err)
}

func TestGeneSpans(t *testing.T) {
	records, err := ReadFrom(strings.NewReader(testGTF))
	require.NoError(t, err)

	spans := GeneSpans(records)
	assert.Equal(t, []interval.Interval{
		{Chrom: "chr12", Start: 25205246, End: 25250929},
		{Chrom: "chrM", Start: 3307, End: 4262},
	}, spans)
}

func TestGroupByChrom(t *testing.T) {
	records, err := ReadFrom(strings.NewReader(testGTF))
	require.NoError(t, err)

	groups := GroupByChrom(records)
	require.Len(t, groups["chr12"], 3)
	assert.Equal(t, "gene", groups["chr12"][0].Feature)
	assert.Equal(t, "exon", groups["chr12"][2].Feature)
	assert.Len(t, groups["chrM"], 1)
}
